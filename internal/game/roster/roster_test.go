package roster

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/hippodrome/internal/config"
	"github.com/udisondev/hippodrome/internal/model"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestGenerator_Generate(t *testing.T) {
	gen := NewGenerator(20, config.HorseNames, seeded(1))

	horses, err := gen.Generate()
	require.NoError(t, err)
	require.Len(t, horses, 20)

	ids := make(map[int32]bool)
	names := make(map[string]bool)
	colors := make(map[string]bool)

	for i, h := range horses {
		assert.Equal(t, int32(i+1), h.ID, "ids are sequential from 1")
		assert.Equal(t, config.HorseNames[i], h.Name, "names follow pool order")
		assert.GreaterOrEqual(t, h.Condition, int32(1))
		assert.LessOrEqual(t, h.Condition, int32(100))

		ids[h.ID] = true
		names[h.Name] = true
		colors[h.Color.String()] = true
	}

	assert.Len(t, ids, 20)
	assert.Len(t, names, 20)
	assert.Len(t, colors, 20)
}

func TestGenerator_Deterministic(t *testing.T) {
	a, err := NewGenerator(20, config.HorseNames, seeded(42)).Generate()
	require.NoError(t, err)
	b, err := NewGenerator(20, config.HorseNames, seeded(42)).Generate()
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, *a[i], *b[i])
	}
}

func TestGenerator_NamePoolTooSmall(t *testing.T) {
	gen := NewGenerator(20, config.HorseNames[:5], seeded(1))

	horses, err := gen.Generate()
	assert.Nil(t, horses)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.ErrorContains(t, err, "name pool has 5 names, need 20")
}

func TestGenerator_DuplicateNames(t *testing.T) {
	pool := []string{"Ocean Wave", "Ocean Wave", "Rain Maker"}

	horses, err := NewGenerator(3, pool, seeded(1)).Generate()
	assert.Nil(t, horses)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.ErrorContains(t, err, "duplicate horse name")
}

func TestGenerateColors(t *testing.T) {
	colors := GenerateColors(20, seeded(7))
	require.Len(t, colors, 20)

	for i, c := range colors {
		assert.Equal(t, i*18, c.Hue, "hue steps of 360/20")
		assert.GreaterOrEqual(t, c.Saturation, 70.0)
		assert.LessOrEqual(t, c.Saturation, 100.0)
		assert.GreaterOrEqual(t, c.Lightness, 40.0)
		assert.LessOrEqual(t, c.Lightness, 60.0)
	}
}

func TestConditionScore_Range(t *testing.T) {
	gen := NewGenerator(1, []string{"Snow Flake"}, seeded(3))

	seen := make(map[int32]bool)
	for range 10000 {
		c := gen.conditionScore()
		require.GreaterOrEqual(t, c, int32(1))
		require.LessOrEqual(t, c, int32(100))
		seen[c] = true
	}
	// На 10000 выборок все 100 значений должны встретиться.
	assert.Len(t, seen, 100)
}

func TestValidate(t *testing.T) {
	color := model.Color{Hue: 1, Saturation: 80, Lightness: 50}
	other := model.Color{Hue: 2, Saturation: 80, Lightness: 50}

	t.Run("size mismatch", func(t *testing.T) {
		err := Validate([]*model.Horse{{ID: 1, Name: "A", Color: color, Condition: 5}}, 2)
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("duplicate id", func(t *testing.T) {
		err := Validate([]*model.Horse{
			{ID: 1, Name: "A", Color: color, Condition: 5},
			{ID: 1, Name: "B", Color: other, Condition: 5},
		}, 2)
		assert.ErrorContains(t, err, "duplicate horse id 1")
	})

	t.Run("duplicate color", func(t *testing.T) {
		err := Validate([]*model.Horse{
			{ID: 1, Name: "A", Color: color, Condition: 5},
			{ID: 2, Name: "B", Color: color, Condition: 5},
		}, 2)
		assert.ErrorContains(t, err, "duplicate horse color")
	})

	t.Run("condition out of range", func(t *testing.T) {
		err := Validate([]*model.Horse{{ID: 1, Name: "A", Color: color, Condition: 0}}, 1)
		assert.ErrorContains(t, err, "invalid condition score")
	})
}
