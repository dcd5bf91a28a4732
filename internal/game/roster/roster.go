package roster

import (
	"math"
	"math/rand/v2"

	"github.com/udisondev/hippodrome/internal/model"
)

// Диапазоны случайной насыщенности и яркости цвета (проценты).
const (
	minSaturation   = 70
	saturationRange = 30
	minLightness    = 40
	lightnessRange  = 20
)

// Generator creates a fixed-size roster of horses.
type Generator struct {
	size  int
	names []string
	rng   *rand.Rand
}

// NewGenerator creates a roster generator for size horses drawing names
// from pool in order. A nil rng uses a randomly seeded source.
func NewGenerator(size int, pool []string, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{
		size:  size,
		names: pool,
		rng:   rng,
	}
}

// Size returns the number of horses the generator produces.
func (g *Generator) Size() int { return g.size }

// Generate creates exactly Size() horses with ids 1..N.
// Either the full roster is returned or an error, never a partial roster.
func (g *Generator) Generate() ([]*model.Horse, error) {
	if g.size <= 0 {
		return nil, model.Validationf("roster size must be positive, got %d", g.size)
	}
	if len(g.names) < g.size {
		return nil, model.Validationf("name pool has %d names, need %d", len(g.names), g.size)
	}

	colors := GenerateColors(g.size, g.rng)
	horses := make([]*model.Horse, 0, g.size)

	for i := range g.size {
		h, err := model.NewHorse(int32(i+1), g.names[i], colors[i], g.conditionScore())
		if err != nil {
			return nil, model.Validationf("invalid horse data at index %d: %v", i, err)
		}
		horses = append(horses, h)
	}

	if err := Validate(horses, g.size); err != nil {
		return nil, err
	}
	return horses, nil
}

// conditionScore returns a uniform score in [1,100].
func (g *Generator) conditionScore() int32 {
	return int32(g.rng.IntN(model.MaxCondition)) + model.MinCondition
}

// GenerateColors splits the hue wheel into count equal steps and picks
// random saturation and lightness per step.
func GenerateColors(count int, rng *rand.Rand) []model.Color {
	colors := make([]model.Color, 0, count)
	hueStep := 360.0 / float64(count)

	for i := range count {
		colors = append(colors, model.Color{
			Hue:        int(math.Floor(float64(i) * hueStep)),
			Saturation: round1(minSaturation + rng.Float64()*saturationRange),
			Lightness:  round1(minLightness + rng.Float64()*lightnessRange),
		})
	}
	return colors
}

// Validate checks roster size, per-horse fields and uniqueness of ids,
// names and colors.
func Validate(horses []*model.Horse, size int) error {
	if len(horses) != size {
		return model.Validationf("failed to generate exactly %d horses, got %d", size, len(horses))
	}

	ids := make(map[int32]struct{}, size)
	names := make(map[string]struct{}, size)
	colors := make(map[model.Color]struct{}, size)

	for i, h := range horses {
		if err := h.Validate(); err != nil {
			return model.Validationf("invalid horse data at index %d: %v", i, err)
		}
		if _, dup := ids[h.ID]; dup {
			return model.Validationf("duplicate horse id %d", h.ID)
		}
		if _, dup := names[h.Name]; dup {
			return model.Validationf("duplicate horse name %q", h.Name)
		}
		if _, dup := colors[h.Color]; dup {
			return model.Validationf("duplicate horse color %s", h.Color)
		}
		ids[h.ID] = struct{}{}
		names[h.Name] = struct{}{}
		colors[h.Color] = struct{}{}
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
