package tournament

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/hippodrome/internal/config"
	"github.com/udisondev/hippodrome/internal/game/ledger"
	"github.com/udisondev/hippodrome/internal/game/race"
	"github.com/udisondev/hippodrome/internal/game/roster"
	"github.com/udisondev/hippodrome/internal/game/schedule"
	"github.com/udisondev/hippodrome/internal/model"
)

// Phase is the orchestrator state.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseCompleted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int32(p))
	}
}

// RoundError annotates a run failure with the failing round number.
type RoundError struct {
	Round int
	Err   error
}

func (e *RoundError) Error() string {
	return fmt.Sprintf("failed to complete round %d: %v", e.Round, e.Err)
}

func (e *RoundError) Unwrap() error { return e.Err }

// Tournament drives roster, schedule and sequential race execution
// over an explicit State, feeding results into the ledger.
type Tournament struct {
	cfg config.Tournament

	state   *State
	roster  *roster.Generator
	builder *schedule.Builder
	sim     *race.Simulator
	results *ledger.Ledger

	phase atomic.Int32

	// genMu serializes roster and schedule generation (shared rng).
	genMu sync.Mutex

	// runMu guards the active run handle used by Reset.
	runMu     sync.Mutex
	runID     uuid.UUID
	runCancel context.CancelFunc
	runDone   chan struct{}

	now func() time.Time
}

// New creates a tournament. rng seeds roster and schedule draws and may
// be nil. store may be nil for a memory-only ledger.
func New(cfg config.Tournament, rng *rand.Rand, store ledger.Store) *Tournament {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	state := NewState()
	return &Tournament{
		cfg:     cfg,
		state:   state,
		roster:  roster.NewGenerator(cfg.TotalHorses, cfg.HorseNames, rng),
		builder: schedule.NewBuilder(cfg.TotalHorses, cfg.ParticipantsPerRace, cfg.Distances, rng),
		sim: race.NewSimulator(race.Config{
			Participants:   cfg.ParticipantsPerRace,
			UpdateInterval: cfg.UpdateInterval,
			TimeUnit:       cfg.TimeUnit,
		}, state),
		results: ledger.New(store),
		now:     time.Now,
	}
}

// State returns the tournament state for polling.
func (t *Tournament) State() *State { return t.state }

// Ledger returns the results ledger.
func (t *Tournament) Ledger() *ledger.Ledger { return t.results }

// Phase returns the current orchestrator phase.
func (t *Tournament) Phase() Phase { return Phase(t.phase.Load()) }

// RunID returns the id of the latest run, or uuid.Nil.
func (t *Tournament) RunID() uuid.UUID {
	t.runMu.Lock()
	defer t.runMu.Unlock()
	return t.runID
}

// GenerateRoster creates and commits the roster.
func (t *Tournament) GenerateRoster() error {
	t.genMu.Lock()
	defer t.genMu.Unlock()

	if len(t.state.Horses()) > 0 {
		slog.Warn("horses already generated, skipping generation")
		return model.StateConflictf("horses already generated")
	}

	horses, err := t.roster.Generate()
	if err != nil {
		return fmt.Errorf("generating horses: %w", err)
	}
	if err := t.state.commitRoster(horses); err != nil {
		return err
	}

	slog.Info("horses generated", "count", len(horses))
	return nil
}

// GenerateSchedule builds and commits the race schedule, replacing any
// previous one.
func (t *Tournament) GenerateSchedule() error {
	t.genMu.Lock()
	defer t.genMu.Unlock()

	rounds, err := t.builder.Build(t.state.Horses())
	if err != nil {
		return fmt.Errorf("generating race schedule: %w", err)
	}

	replaced, err := t.state.commitSchedule(rounds)
	if err != nil {
		return err
	}
	if replaced {
		slog.Warn("race schedule already exists, regenerated")
	}

	slog.Info("race schedule generated", "rounds", len(rounds))
	return nil
}

// Start runs every scheduled round in order and blocks until the last
// round is committed, a round fails, or ctx is canceled.
// observe, if non-nil, receives every tick snapshot.
func (t *Tournament) Start(ctx context.Context, observe func(race.Snapshot)) error {
	t.runMu.Lock()
	if err := t.state.beginRun(t.cfg.TotalRounds); err != nil {
		t.runMu.Unlock()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	runID := uuid.New()

	t.runID = runID
	t.runCancel = cancel
	t.runDone = done
	t.runMu.Unlock()

	defer func() {
		cancel()
		t.runMu.Lock()
		t.runCancel = nil
		t.runDone = nil
		t.runMu.Unlock()
		close(done)
	}()

	t.phase.Store(int32(PhaseRunning))
	slog.Info("starting race sequence", "run", runID, "rounds", t.cfg.TotalRounds)

	for i := range t.cfg.TotalRounds {
		if err := t.runRound(runCtx, runID, i, observe); err != nil {
			t.state.endRun()
			t.phase.Store(int32(PhaseFailed))
			slog.Error("race sequence failed", "run", runID, "round", i+1, "error", err)
			return &RoundError{Round: i + 1, Err: err}
		}
	}

	t.state.endRun()
	t.phase.Store(int32(PhaseCompleted))
	slog.Info("all races completed", "run", runID)
	return nil
}

func (t *Tournament) runRound(ctx context.Context, runID uuid.UUID, i int, observe func(race.Snapshot)) error {
	round, err := t.state.setCursor(i)
	if err != nil {
		return err
	}

	if len(round.Participants) != t.cfg.ParticipantsPerRace {
		return model.Validationf("invalid participants for round %d", round.Number)
	}

	outcomes, err := t.sim.Run(ctx, round, observe)
	if err != nil {
		return err
	}
	if len(outcomes) != t.cfg.ParticipantsPerRace {
		return model.Validationf("invalid race results for round %d", round.Number)
	}

	if err := t.state.completeRound(i, outcomes); err != nil {
		return err
	}

	result := model.HistoricalResult{
		RunID:       runID,
		RoundNumber: i + 1,
		Distance:    round.Distance,
		Rankings:    outcomes,
		CompletedAt: t.now().UTC(),
	}
	if err := t.results.Add(ctx, result); err != nil {
		return err
	}

	slog.Info("round completed", "round", i+1, "of", t.cfg.TotalRounds)
	return nil
}

// Reset cancels an in-flight run, waits for it to stop and clears roster,
// schedule, cursor, ledger, flags and positions.
func (t *Tournament) Reset(ctx context.Context) error {
	t.runMu.Lock()
	cancel, done := t.runCancel, t.runDone
	t.runMu.Unlock()

	if cancel != nil {
		cancel()
		select {
		case <-done:
		case <-ctx.Done():
			return fmt.Errorf("waiting for race run to stop: %w", ctx.Err())
		}
	}

	if err := t.results.Clear(ctx); err != nil {
		return fmt.Errorf("resetting game state: %w", err)
	}
	t.state.Reset()
	t.phase.Store(int32(PhaseIdle))

	t.runMu.Lock()
	t.runID = uuid.Nil
	t.runMu.Unlock()

	slog.Info("game state reset")
	return nil
}

// --- state queries ---

// CurrentRound returns the round under the cursor.
func (t *Tournament) CurrentRound() (*model.Round, bool) { return t.state.CurrentRound() }

// ScheduleGenerated reports whether a schedule exists.
func (t *Tournament) ScheduleGenerated() bool { return t.state.ScheduleGenerated() }

// CanStart reports whether Start would pass its guards.
func (t *Tournament) CanStart() bool { return t.state.CanStart() }

// Racing reports whether a run is in progress.
func (t *Tournament) Racing() bool { return t.state.Racing() }

// Cursor returns the current round index.
func (t *Tournament) Cursor() int { return t.state.Cursor() }

// Positions returns a copy of the live position board.
func (t *Tournament) Positions() map[int32]float64 { return t.state.Positions() }

// HorsePosition returns the clamped live position of a horse.
func (t *Tournament) HorsePosition(id int32) float64 { return t.state.HorsePosition(id) }

// CompletedRounds returns the number of ledger entries.
func (t *Tournament) CompletedRounds() int { return t.results.Count() }

// --- ledger facade ---

// Results returns all ledger entries.
func (t *Tournament) Results() []model.HistoricalResult { return t.results.All() }

// ResultByRound returns the ledger entry for round n.
func (t *Tournament) ResultByRound(n int) (model.HistoricalResult, bool) { return t.results.ByRound(n) }

// LatestResult returns the most recent ledger entry.
func (t *Tournament) LatestResult() (model.HistoricalResult, bool) { return t.results.Latest() }

// ResultsForRounds returns ledger entries for the given rounds.
func (t *Tournament) ResultsForRounds(ns ...int) []model.HistoricalResult {
	return t.results.ForRounds(ns...)
}

// HasResults reports whether the ledger has entries.
func (t *Tournament) HasResults() bool { return t.results.HasResults() }

// ClearResults empties the ledger.
func (t *Tournament) ClearResults(ctx context.Context) error {
	if err := t.results.Clear(ctx); err != nil {
		return err
	}
	slog.Info("all race results cleared")
	return nil
}

// UpdateResult replaces the ledger entry for round n.
func (t *Tournament) UpdateResult(ctx context.Context, n int, r model.HistoricalResult) error {
	return t.results.Update(ctx, n, r)
}

// RemoveResult removes ledger entries for round n.
func (t *Tournament) RemoveResult(ctx context.Context, n int) error {
	return t.results.Remove(ctx, n)
}
