package race

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/udisondev/hippodrome/internal/model"
)

// FinishLine is the track position of a horse that completed the distance.
const FinishLine = 100.0

// Board receives live track positions during a race.
type Board interface {
	// ResetPositions clears all positions left from a previous race.
	ResetPositions()
	// SetPositions merges positions (horse id → 0..100) into the board.
	SetPositions(positions map[int32]float64)
}

// Snapshot is the state of a race at one tick.
type Snapshot struct {
	Round     int
	Tick      int
	Elapsed   float64 // time units since start
	Positions map[int32]float64
	Finished  bool
}

// Config holds simulator parameters.
type Config struct {
	Participants   int
	UpdateInterval time.Duration
	// TimeUnit — длительность одной единицы finish time.
	TimeUnit time.Duration
}

// Simulator runs a single round as a time-stepped progress simulation.
// Outcome is fully determined by horse conditions and the distance.
type Simulator struct {
	participants int
	interval     time.Duration
	unit         time.Duration
	board        Board

	now func() time.Time
}

// NewSimulator creates a simulator writing positions to board.
// A nil board discards positions.
func NewSimulator(cfg Config, board Board) *Simulator {
	if board == nil {
		board = nopBoard{}
	}
	if cfg.UpdateInterval <= 0 {
		cfg.UpdateInterval = 100 * time.Millisecond
	}
	if cfg.TimeUnit <= 0 {
		cfg.TimeUnit = time.Second
	}
	return &Simulator{
		participants: cfg.Participants,
		interval:     cfg.UpdateInterval,
		unit:         cfg.TimeUnit,
		board:        board,
		now:          time.Now,
	}
}

// FinishTime returns the deterministic finish time for a horse.
// Condition 100 finishes in distance/1000, condition 1 in 1.5x that.
func FinishTime(distance float64, condition int32) float64 {
	base := distance / 1000
	conditionFactor := float64(condition) / 100
	return round2(base + base*0.5*(1-conditionFactor))
}

// Rank computes finish times and orders horses by ascending finish time.
// Equal times keep input order. Positions are dense from 1.
func Rank(participants []*model.Horse, distance float64) []model.RaceOutcome {
	outcomes := make([]model.RaceOutcome, 0, len(participants))
	for _, h := range participants {
		outcomes = append(outcomes, model.RaceOutcome{
			Horse:      h,
			FinishTime: FinishTime(distance, h.Condition),
		})
	}

	slices.SortStableFunc(outcomes, func(a, b model.RaceOutcome) int {
		return cmp.Compare(a.FinishTime, b.FinishTime)
	})

	for i := range outcomes {
		outcomes[i].Position = i + 1
	}
	return outcomes
}

// Position returns track progress for elapsed time units, in [0,100]
// with two decimals.
func Position(elapsed, finishTime float64) float64 {
	if elapsed >= finishTime {
		return FinishLine
	}
	p := elapsed / finishTime * 100
	return round2(max(0, min(p, FinishLine)))
}

// Run simulates round and returns the ranked result.
// observe, if non-nil, receives a snapshot on every tick.
// Canceling ctx stops the race and returns the context error.
func (s *Simulator) Run(ctx context.Context, round *model.Round, observe func(Snapshot)) ([]model.RaceOutcome, error) {
	if err := s.validate(round); err != nil {
		return nil, err
	}

	s.board.ResetPositions()
	initial := make(map[int32]float64, len(round.Participants))
	for _, h := range round.Participants {
		initial[h.ID] = 0
	}
	s.board.SetPositions(initial)

	ranked := Rank(round.Participants, round.Distance)

	slog.Info("race started",
		"round", round.Number,
		"horses", len(round.Participants),
		"distance", round.Distance)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	start := s.now()
	tick := 0

	for {
		select {
		case <-ctx.Done():
			slog.Warn("race interrupted", "round", round.Number, "tick", tick)
			return nil, fmt.Errorf("race round %d interrupted: %w", round.Number, ctx.Err())
		case <-ticker.C:
			tick++
			elapsed := float64(s.now().Sub(start)) / float64(s.unit)

			positions := make(map[int32]float64, len(ranked))
			allFinished := true
			for _, o := range ranked {
				if elapsed < o.FinishTime {
					allFinished = false
				}
				positions[o.Horse.ID] = Position(elapsed, o.FinishTime)
			}
			s.board.SetPositions(positions)

			slog.Debug("race tick", "round", round.Number, "tick", tick, "elapsed", elapsed)

			if !allFinished {
				s.emit(observe, Snapshot{Round: round.Number, Tick: tick, Elapsed: elapsed, Positions: positions})
				continue
			}

			return s.finish(round, ranked, tick, elapsed, observe)
		}
	}
}

// finish pins every horse to the finish line and returns the ranking.
func (s *Simulator) finish(round *model.Round, ranked []model.RaceOutcome, tick int, elapsed float64, observe func(Snapshot)) ([]model.RaceOutcome, error) {
	final := make(map[int32]float64, len(round.Participants))
	for _, h := range round.Participants {
		final[h.ID] = FinishLine
	}
	s.board.SetPositions(final)

	if len(ranked) != len(round.Participants) {
		return nil, model.Validationf("failed to generate complete race results for round %d", round.Number)
	}

	s.emit(observe, Snapshot{Round: round.Number, Tick: tick, Elapsed: elapsed, Positions: final, Finished: true})

	winner := ranked[0]
	slog.Info("race finished",
		"round", round.Number,
		"winner", winner.Horse.Name,
		"condition", winner.Horse.Condition,
		"time", winner.FinishTime,
		"ticks", tick)

	return ranked, nil
}

func (s *Simulator) validate(round *model.Round) error {
	if round == nil {
		return model.Validationf("invalid race data provided")
	}
	if len(round.Participants) == 0 || len(round.Participants) != s.participants {
		return model.Validationf("expected %d participants, but received %d", s.participants, len(round.Participants))
	}
	if round.Distance <= 0 || math.IsNaN(round.Distance) || math.IsInf(round.Distance, 0) {
		return model.Validationf("invalid race distance: %g", round.Distance)
	}
	seen := make(map[int32]struct{}, len(round.Participants))
	for _, h := range round.Participants {
		if h == nil || h.ID <= 0 {
			return model.Validationf("invalid horse data in participants")
		}
		if _, dup := seen[h.ID]; dup {
			return model.Validationf("horse %d entered twice in round %d", h.ID, round.Number)
		}
		seen[h.ID] = struct{}{}
		if h.Condition < model.MinCondition || h.Condition > model.MaxCondition {
			return model.Validationf("invalid horse condition for %s: %d", h.Name, h.Condition)
		}
	}
	return nil
}

func (s *Simulator) emit(observe func(Snapshot), snap Snapshot) {
	if observe == nil {
		return
	}
	snap.Positions = maps.Clone(snap.Positions)
	observe(snap)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type nopBoard struct{}

func (nopBoard) ResetPositions() {}

func (nopBoard) SetPositions(map[int32]float64) {}
