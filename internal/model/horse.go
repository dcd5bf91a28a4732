package model

import "fmt"

// Границы condition score.
const (
	MinCondition = 1
	MaxCondition = 100
)

// Color is an HSL color assigned to a horse.
type Color struct {
	Hue        int
	Saturation float64 // percent
	Lightness  float64 // percent
}

// IsZero reports whether the color was never assigned.
func (c Color) IsZero() bool {
	return c == Color{}
}

// String renders the color as a CSS hsl() value.
func (c Color) String() string {
	return fmt.Sprintf("hsl(%d, %g%%, %g%%)", c.Hue, c.Saturation, c.Lightness)
}

// Horse is a tournament competitor.
// All fields are fixed at creation; the live track position is kept
// by the tournament state keyed by ID.
type Horse struct {
	ID        int32
	Name      string
	Color     Color
	Condition int32
}

// NewHorse creates a horse and validates its fields.
func NewHorse(id int32, name string, color Color, condition int32) (*Horse, error) {
	h := &Horse{
		ID:        id,
		Name:      name,
		Color:     color,
		Condition: condition,
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Validate checks required fields and the condition range.
func (h *Horse) Validate() error {
	if h == nil {
		return Validationf("horse is nil")
	}
	if h.ID <= 0 {
		return Validationf("invalid horse id %d", h.ID)
	}
	if h.Name == "" {
		return Validationf("horse %d has no name", h.ID)
	}
	if h.Color.IsZero() {
		return Validationf("horse %q has no color", h.Name)
	}
	if h.Condition < MinCondition || h.Condition > MaxCondition {
		return Validationf("invalid condition score for horse %s: %d", h.Name, h.Condition)
	}
	return nil
}
