package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(99))
	assert.Equal(t, 2, LevelForXP(100))
	assert.Equal(t, 3, LevelForXP(259))
	assert.Equal(t, 1, LevelForXP(-5))

	prev := LevelForXP(0)
	for xp := 1; xp <= 2000; xp++ {
		lvl := LevelForXP(xp)
		assert.GreaterOrEqual(t, lvl, prev)
		prev = lvl
	}
}

func TestRankForLevel(t *testing.T) {
	cases := map[int]string{
		1:  RankNewcomer,
		2:  RankNewcomer,
		3:  RankLearner,
		4:  RankLearner,
		5:  RankExplorer,
		7:  RankAdvanced,
		9:  RankMaster,
		10: RankMaster,
		11: RankLegend,
		40: RankLegend,
	}
	for level, want := range cases {
		assert.Equal(t, want, RankForLevel(level), "level %d", level)
	}
}

func TestAttemptReward(t *testing.T) {
	assert.Equal(t, 0, AttemptReward(0))
	assert.Equal(t, 1, AttemptReward(1))
	assert.Equal(t, 5, AttemptReward(50))
	assert.Equal(t, 9, AttemptReward(90))
	assert.Equal(t, 10, AttemptReward(91))
	assert.Equal(t, 10, AttemptReward(100))
	assert.Equal(t, 10, AttemptReward(250))
	assert.Equal(t, 0, AttemptReward(-10))
}

func TestRewardScenario(t *testing.T) {
	xp := 250 + AttemptReward(90)
	assert.Equal(t, 259, xp)
	assert.Equal(t, 3, LevelForXP(xp))
	assert.Equal(t, RankLearner, RankForLevel(LevelForXP(xp)))
	assert.Equal(t, 300, NextLevelXP(LevelForXP(xp)))
}

func TestTierForLevel(t *testing.T) {
	assert.Equal(t, TierEasy, TierForLevel(1))
	assert.Equal(t, TierEasy, TierForLevel(3))
	assert.Equal(t, TierMedium, TierForLevel(4))
	assert.Equal(t, TierMedium, TierForLevel(7))
	assert.Equal(t, TierHard, TierForLevel(8))
}
