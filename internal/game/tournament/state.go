package tournament

import (
	"maps"
	"sync"

	"github.com/udisondev/hippodrome/internal/game/race"
	"github.com/udisondev/hippodrome/internal/model"
)

// State is the process-wide tournament state: roster, schedule, round
// cursor, guard flags and the live position board.
// Reads return copies and are safe from any goroutine.
type State struct {
	mu sync.RWMutex

	horses    []*model.Horse
	schedule  []*model.Round
	cursor    int
	racing    bool
	generated bool

	// positions — scratch state текущей гонки (horse id → 0..100).
	positions map[int32]float64
}

// NewState returns an empty state.
func NewState() *State {
	return &State{positions: make(map[int32]float64)}
}

// Reset clears everything back to the initial empty state.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.horses = nil
	s.schedule = nil
	s.cursor = 0
	s.racing = false
	s.generated = false
	s.positions = make(map[int32]float64)
}

// Horses returns the roster.
func (s *State) Horses() []*model.Horse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Horse(nil), s.horses...)
}

// Schedule returns copies of all scheduled rounds.
func (s *State) Schedule() []*model.Round {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Round, 0, len(s.schedule))
	for _, r := range s.schedule {
		out = append(out, r.Clone())
	}
	return out
}

// Round returns a copy of the round at index i.
func (s *State) Round(i int) (*model.Round, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.schedule) {
		return nil, false
	}
	return s.schedule[i].Clone(), true
}

// CurrentRound returns a copy of the round under the cursor.
func (s *State) CurrentRound() (*model.Round, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentRoundLocked()
}

func (s *State) currentRoundLocked() (*model.Round, bool) {
	if len(s.schedule) == 0 || s.cursor >= len(s.schedule) {
		return nil, false
	}
	return s.schedule[s.cursor].Clone(), true
}

// Cursor returns the current round index (0-based).
func (s *State) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// Racing reports whether a tournament run is in progress.
func (s *State) Racing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.racing
}

// ScheduleGenerated reports whether a schedule exists.
func (s *State) ScheduleGenerated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generated && len(s.schedule) > 0
}

// CanStart reports whether a tournament run may be started now.
func (s *State) CanStart() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generated && !s.racing && len(s.horses) > 0
}

// Positions returns a copy of the live position board.
func (s *State) Positions() map[int32]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.positions)
}

// HorsePosition returns the live position of a horse, clamped to [0,100].
// A horse with no live position is at the finish line if the current
// round is already completed, otherwise at the start.
func (s *State) HorsePosition(id int32) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.positions[id]; ok {
		return max(0, min(p, race.FinishLine))
	}
	if r, ok := s.currentRoundLocked(); ok && r.Completed {
		return race.FinishLine
	}
	return 0
}

// ResetPositions implements race.Board.
func (s *State) ResetPositions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = make(map[int32]float64)
}

// SetPositions implements race.Board.
func (s *State) SetPositions(positions map[int32]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.positions, positions)
}

// commitRoster stores the roster unless one already exists.
func (s *State) commitRoster(horses []*model.Horse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.racing {
		return model.StateConflictf("races are already in progress")
	}
	if len(s.horses) > 0 {
		return model.StateConflictf("horses already generated")
	}
	s.horses = horses
	return nil
}

// commitSchedule replaces the schedule and resets the cursor.
// Returns whether an existing schedule was discarded.
func (s *State) commitSchedule(rounds []*model.Round) (replaced bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.racing {
		return false, model.StateConflictf("cannot regenerate schedule while races are in progress")
	}
	replaced = s.generated && len(s.schedule) > 0
	s.schedule = rounds
	s.generated = true
	s.cursor = 0
	return replaced, nil
}

// beginRun checks the start guards and raises the racing flag
// in one step. A rejected call changes nothing.
func (s *State) beginRun(rounds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.generated || len(s.schedule) == 0 {
		return model.Preconditionf("race schedule must be generated before starting races")
	}
	if len(s.schedule) != rounds {
		return model.Preconditionf("expected %d rounds in schedule, but found %d", rounds, len(s.schedule))
	}
	if s.racing {
		return model.StateConflictf("races are already in progress")
	}
	s.racing = true
	s.cursor = 0
	return nil
}

// endRun clears the racing flag.
func (s *State) endRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.racing = false
}

// setCursor moves the cursor and returns a copy of that round.
func (s *State) setCursor(i int) (*model.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.schedule) {
		return nil, model.Validationf("round index %d is out of bounds", i)
	}
	s.cursor = i
	return s.schedule[i].Clone(), nil
}

// completeRound marks round i completed with its outcomes.
func (s *State) completeRound(i int, outcomes []model.RaceOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.schedule) {
		return model.Validationf("round index %d is out of bounds", i)
	}
	r := s.schedule[i].Clone()
	r.Completed = true
	r.Results = append([]model.RaceOutcome(nil), outcomes...)
	s.schedule[i] = r
	return nil
}
