package gamification

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogPools(t *testing.T) {
	c := DefaultCatalog()
	assert.Len(t, c.Pool(TierEasy), 2)
	assert.Len(t, c.Pool(TierMedium), 3)
	assert.Len(t, c.Pool(TierHard), 3)

	hard := c.Pool(TierHard)
	require.NotNil(t, hard[1].Threshold)
	assert.Equal(t, "score_100", hard[1].ID)
	assert.Equal(t, 100, *hard[1].Threshold)
}

func TestPoolReturnsCopy(t *testing.T) {
	c := DefaultCatalog()
	pool := c.Pool(TierEasy)
	pool[0].XPReward = 9999
	assert.Equal(t, 20, c.Pool(TierEasy)[0].XPReward)
}

func TestDrawDistinct(t *testing.T) {
	c := DefaultCatalog()
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		picks := c.Draw(TierMedium, 2, r.IntN)
		require.Len(t, picks, 2)
		assert.NotEqual(t, picks[0].ID, picks[1].ID)
	}
}

func TestDrawCapsAtPoolSize(t *testing.T) {
	c := DefaultCatalog()
	picks := c.Draw(TierEasy, 5, rand.IntN)
	require.Len(t, picks, 2)
	assert.ElementsMatch(t, []string{"complete_1", "score_70"}, []string{picks[0].ID, picks[1].ID})

	assert.Empty(t, c.Draw(TierEasy, 0, rand.IntN))
	assert.Empty(t, (&Catalog{}).Draw(TierHard, 2, rand.IntN))
}

func TestDrawUsesPicker(t *testing.T) {
	c := DefaultCatalog()
	last := func(n int) int { return n - 1 }
	picks := c.Draw(TierHard, 2, last)
	require.Len(t, picks, 2)
	assert.Equal(t, "streak_5", picks[0].ID)
	assert.Equal(t, "complete_3", picks[1].ID)
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`
easy:
  - id: warmup
    title: Warm up
    description: Finish one quiz
    type: complete_quizzes
    target: 1
    xp_reward: 15
hard:
  - id: ace
    title: Ace
    description: Score 95 or more
    type: score_at_least
    target: 1
    threshold: 95
    xp_reward: 60
`)
	c, err := ParseCatalog(data)
	require.NoError(t, err)
	assert.Len(t, c.Pool(TierEasy), 1)
	assert.Empty(t, c.Pool(TierMedium))
	require.Len(t, c.Pool(TierHard), 1)
	assert.Equal(t, 95, *c.Pool(TierHard)[0].Threshold)
}

func TestParseCatalogRejectsBadTemplates(t *testing.T) {
	cases := map[string]string{
		"unknown tier": `
legendary:
  - {id: x, type: complete_quizzes, target: 1, xp_reward: 1}`,
		"missing threshold": `
easy:
  - {id: x, type: score_at_least, target: 1, xp_reward: 1}`,
		"unknown type": `
easy:
  - {id: x, type: answer_fast, target: 1, xp_reward: 1}`,
		"zero target": `
easy:
  - {id: x, type: complete_quizzes, target: 0, xp_reward: 1}`,
		"duplicate id": `
easy:
  - {id: x, type: complete_quizzes, target: 1, xp_reward: 1}
medium:
  - {id: x, type: streak_days, target: 2, xp_reward: 1}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(doc))
			assert.True(t, errors.Is(err, ErrInvalidCatalog), "got %v", err)
		})
	}
}
