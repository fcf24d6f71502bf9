package gamification

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MissionType selects how a mission's progress is measured.
type MissionType string

const (
	MissionCompleteQuizzes MissionType = "complete_quizzes"
	MissionScoreAtLeast    MissionType = "score_at_least"
	MissionStreakDays      MissionType = "streak_days"
)

var ErrInvalidCatalog = errors.New("invalid mission catalog")

// Template is a mission definition from the catalog.
type Template struct {
	ID          string      `yaml:"id"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Type        MissionType `yaml:"type"`
	Target      int         `yaml:"target"`
	Threshold   *int        `yaml:"threshold,omitempty"`
	XPReward    int         `yaml:"xp_reward"`
}

// Catalog holds the mission pools per tier. It is immutable after construction.
type Catalog struct {
	pools map[Tier][]Template
}

func intPtr(v int) *int { return &v }

// DefaultCatalog returns the built-in mission pools.
func DefaultCatalog() *Catalog {
	return &Catalog{pools: map[Tier][]Template{
		TierEasy: {
			{ID: "complete_1", Title: "Kezdő lendület", Description: "Tölts ki 1 kvízt ma", Type: MissionCompleteQuizzes, Target: 1, XPReward: 20},
			{ID: "score_70", Title: "Biztos kéz", Description: "Érj el 70%+ eredményt egy kvízben", Type: MissionScoreAtLeast, Target: 1, Threshold: intPtr(70), XPReward: 25},
		},
		TierMedium: {
			{ID: "complete_2", Title: "Fokozatváltás", Description: "Tölts ki 2 kvízt ma", Type: MissionCompleteQuizzes, Target: 2, XPReward: 40},
			{ID: "score_85", Title: "Precízió", Description: "Érj el 85%+ eredményt egy kvízben", Type: MissionScoreAtLeast, Target: 1, Threshold: intPtr(85), XPReward: 45},
			{ID: "streak_3", Title: "Rutin", Description: "Tanulj 3 napig egymás után", Type: MissionStreakDays, Target: 3, XPReward: 50},
		},
		TierHard: {
			{ID: "complete_3", Title: "Maraton", Description: "Tölts ki 3 kvízt ma", Type: MissionCompleteQuizzes, Target: 3, XPReward: 70},
			{ID: "score_100", Title: "Hibátlan", Description: "Érj el 100% eredményt egy kvízben", Type: MissionScoreAtLeast, Target: 1, Threshold: intPtr(100), XPReward: 80},
			{ID: "streak_5", Title: "Széria", Description: "Tanulj 5 napig egymás után", Type: MissionStreakDays, Target: 5, XPReward: 90},
		},
	}}
}

// LoadCatalog reads a YAML catalog keyed by tier (easy, medium, hard).
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mission catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var raw map[Tier][]Template
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode mission catalog: %w", err)
	}

	seen := make(map[string]struct{})
	pools := make(map[Tier][]Template, len(raw))
	for tier, templates := range raw {
		switch tier {
		case TierEasy, TierMedium, TierHard:
		default:
			return nil, fmt.Errorf("%w: unknown tier %q", ErrInvalidCatalog, tier)
		}
		for _, t := range templates {
			if err := validateTemplate(t); err != nil {
				return nil, err
			}
			if _, dup := seen[t.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate mission id %q", ErrInvalidCatalog, t.ID)
			}
			seen[t.ID] = struct{}{}
		}
		pools[tier] = append([]Template(nil), templates...)
	}
	return &Catalog{pools: pools}, nil
}

func validateTemplate(t Template) error {
	if t.ID == "" {
		return fmt.Errorf("%w: mission id required", ErrInvalidCatalog)
	}
	if t.Target < 1 {
		return fmt.Errorf("%w: mission %q target must be positive", ErrInvalidCatalog, t.ID)
	}
	if t.XPReward < 0 {
		return fmt.Errorf("%w: mission %q xp_reward must not be negative", ErrInvalidCatalog, t.ID)
	}
	switch t.Type {
	case MissionCompleteQuizzes, MissionStreakDays:
	case MissionScoreAtLeast:
		if t.Threshold == nil || *t.Threshold < 0 || *t.Threshold > 100 {
			return fmt.Errorf("%w: mission %q needs a threshold between 0 and 100", ErrInvalidCatalog, t.ID)
		}
	default:
		return fmt.Errorf("%w: mission %q has unknown type %q", ErrInvalidCatalog, t.ID, t.Type)
	}
	return nil
}

// Pool returns a copy of the templates for tier.
func (c *Catalog) Pool(tier Tier) []Template {
	return append([]Template(nil), c.pools[tier]...)
}

// Draw picks n distinct templates from tier's pool without replacement, capped at the pool size.
// intn must return a value in [0, n).
func (c *Catalog) Draw(tier Tier, n int, intn func(int) int) []Template {
	pool := c.pools[tier]
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}

	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	picks := make([]Template, 0, n)
	for i := 0; i < n; i++ {
		j := i + intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		picks = append(picks, pool[idx[i]])
	}
	return picks
}
