package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHorse(t *testing.T) {
	color := Color{Hue: 18, Saturation: 75.5, Lightness: 50}

	h, err := NewHorse(1, "Thunder Bolt", color, 87)
	require.NoError(t, err)
	assert.Equal(t, int32(1), h.ID)
	assert.Equal(t, "Thunder Bolt", h.Name)
	assert.Equal(t, color, h.Color)
	assert.Equal(t, int32(87), h.Condition)
}

func TestNewHorse_Invalid(t *testing.T) {
	color := Color{Hue: 0, Saturation: 80, Lightness: 45}

	tests := []struct {
		name      string
		id        int32
		horseName string
		color     Color
		condition int32
	}{
		{"zero id", 0, "Dawn Rider", color, 50},
		{"empty name", 1, "", color, 50},
		{"no color", 1, "Dawn Rider", Color{}, 50},
		{"condition too low", 1, "Dawn Rider", color, 0},
		{"condition too high", 1, "Dawn Rider", color, 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHorse(tt.id, tt.horseName, tt.color, tt.condition)
			assert.Nil(t, h)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestColor_String(t *testing.T) {
	c := Color{Hue: 198, Saturation: 72.5, Lightness: 41}
	assert.Equal(t, "hsl(198, 72.5%, 41%)", c.String())
	assert.True(t, Color{}.IsZero())
	assert.False(t, c.IsZero())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrPrecondition, KindOf(Preconditionf("horses must be generated first")))
	assert.Equal(t, ErrStateConflict, KindOf(StateConflictf("busy")))

	// Kind survives fmt.Errorf wrapping.
	wrapped := fmt.Errorf("round 3: %w", Validationf("bad distance"))
	assert.Equal(t, ErrValidation, KindOf(wrapped))
	assert.Equal(t, "round 3: bad distance", wrapped.Error())

	assert.Nil(t, KindOf(errors.New("plain")))
}

func TestRound_Clone(t *testing.T) {
	h := &Horse{ID: 1, Name: "Star Gazer", Color: Color{Hue: 1, Saturation: 70, Lightness: 40}, Condition: 10}
	r := &Round{Number: 1, Distance: 1200, Participants: []*Horse{h}}

	c := r.Clone()
	c.Participants[0] = nil
	c.Completed = true

	assert.Same(t, h, r.Participants[0])
	assert.False(t, r.Completed)
	assert.Nil(t, (*Round)(nil).Clone())
}
