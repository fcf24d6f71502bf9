package gamification

// XPPerLevel is the experience needed to advance one level.
const XPPerLevel = 100

const maxAttemptReward = 10

// Rank labels in ascending order.
const (
	RankNewcomer = "Újonc"
	RankLearner  = "Tanuló"
	RankExplorer = "Felfedező"
	RankAdvanced = "Haladó"
	RankMaster   = "Mester"
	RankLegend   = "Legenda"

	// RankTeacher is shown to teachers, who do not collect XP.
	RankTeacher = "Tanár"
)

var rankThresholds = []struct {
	minLevel int
	rank     string
}{
	{11, RankLegend},
	{9, RankMaster},
	{7, RankAdvanced},
	{5, RankExplorer},
	{3, RankLearner},
}

// Tier selects which mission pool a user draws from.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// LevelForXP returns floor(xp/100)+1. Negative xp is treated as zero.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// NextLevelXP is the total xp at which level+1 begins.
func NextLevelXP(level int) int {
	return level * XPPerLevel
}

func RankForLevel(level int) string {
	for _, t := range rankThresholds {
		if level >= t.minLevel {
			return t.rank
		}
	}
	return RankNewcomer
}

// AttemptReward is ceil(score/10), with score clamped to 0..100.
func AttemptReward(score int) int {
	if score <= 0 {
		return 0
	}
	reward := (score + 9) / 10
	if reward > maxAttemptReward {
		return maxAttemptReward
	}
	return reward
}

func TierForLevel(level int) Tier {
	switch {
	case level <= 3:
		return TierEasy
	case level <= 7:
		return TierMedium
	default:
		return TierHard
	}
}
