package schedule

import (
	"math/rand/v2"

	"github.com/udisondev/hippodrome/internal/model"
)

// Builder partitions a roster into a fixed sequence of rounds.
type Builder struct {
	rosterSize   int
	participants int
	distances    []float64
	rng          *rand.Rand
}

// NewBuilder creates a schedule builder. The number of rounds equals
// len(distances); round i races distances[i-1].
// A nil rng uses a randomly seeded source.
func NewBuilder(rosterSize, participants int, distances []float64, rng *rand.Rand) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Builder{
		rosterSize:   rosterSize,
		participants: participants,
		distances:    append([]float64(nil), distances...),
		rng:          rng,
	}
}

// Rounds returns the number of rounds in a built schedule.
func (b *Builder) Rounds() int { return len(b.distances) }

// Participants returns the per-round participant count.
func (b *Builder) Participants() int { return b.participants }

// Build creates the full schedule. Selection is independent per round,
// so a horse may race in several rounds.
func (b *Builder) Build(roster []*model.Horse) ([]*model.Round, error) {
	if len(roster) == 0 {
		return nil, model.Preconditionf("horses must be generated first")
	}
	if len(roster) != b.rosterSize {
		return nil, model.Preconditionf("expected %d horses, but found %d", b.rosterSize, len(roster))
	}

	rounds := make([]*model.Round, 0, len(b.distances))
	for i, distance := range b.distances {
		number := i + 1
		participants, err := b.draw(roster, number)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, &model.Round{
			Number:       number,
			Distance:     distance,
			Participants: participants,
		})
	}

	if len(rounds) != len(b.distances) {
		return nil, model.Validationf("expected %d rounds, but created %d", len(b.distances), len(rounds))
	}
	return rounds, nil
}

// draw picks participants uniformly without replacement:
// берём случайный индекс из оставшихся и удаляем его из пула.
func (b *Builder) draw(roster []*model.Horse, roundNumber int) ([]*model.Horse, error) {
	available := append([]*model.Horse(nil), roster...)
	selected := make([]*model.Horse, 0, b.participants)

	for range b.participants {
		if len(available) == 0 {
			return nil, model.Validationf("not enough horses available for round %d", roundNumber)
		}
		idx := b.rng.IntN(len(available))
		selected = append(selected, available[idx])
		available = append(available[:idx], available[idx+1:]...)
	}
	return selected, nil
}
