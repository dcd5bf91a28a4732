package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/udisondev/hippodrome/internal/crypto"
	"github.com/udisondev/hippodrome/internal/model"
)

// Store provides persistence for ledger entries.
// Implemented by db.RaceResultRepository.
type Store interface {
	AppendResult(ctx context.Context, r model.HistoricalResult) error
	ReplaceResult(ctx context.Context, roundNumber int, r model.HistoricalResult) error
	DeleteResult(ctx context.Context, roundNumber int) error
	DeleteAllResults(ctx context.Context) error
	LoadAllResults(ctx context.Context) ([]model.HistoricalResult, error)
}

// Ledger keeps finalized per-round results in insertion order.
// Mutations write through to the store first; a store error leaves
// the in-memory ledger unchanged.
// Потокобезопасен через sync.RWMutex.
type Ledger struct {
	store Store // nil → memory only

	mu      sync.RWMutex
	results []model.HistoricalResult
}

// New creates a ledger. store may be nil.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Add appends a result. Duplicate round numbers are allowed.
func (l *Ledger) Add(ctx context.Context, r model.HistoricalResult) error {
	if r.RoundNumber < 1 {
		return model.Validationf("invalid round number: %d", r.RoundNumber)
	}
	if len(r.Rankings) == 0 {
		return model.Validationf("invalid race results provided for round %d", r.RoundNumber)
	}
	r = sealed(r)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store != nil {
		if err := l.store.AppendResult(ctx, r); err != nil {
			return fmt.Errorf("storing result for round %d: %w", r.RoundNumber, err)
		}
	}
	l.results = append(l.results, r)

	slog.Debug("race result recorded", "round", r.RoundNumber, "digest", r.Digest)
	return nil
}

// Update replaces the first result for roundNumber. No-op if absent.
func (l *Ledger) Update(ctx context.Context, roundNumber int, r model.HistoricalResult) error {
	if roundNumber < 1 {
		return model.Validationf("invalid round number: %d", roundNumber)
	}
	if len(r.Rankings) == 0 {
		return model.Validationf("invalid updated result provided")
	}
	r = sealed(r)

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := slices.IndexFunc(l.results, func(e model.HistoricalResult) bool {
		return e.RoundNumber == roundNumber
	})
	if idx == -1 {
		return nil
	}

	if l.store != nil {
		if err := l.store.ReplaceResult(ctx, roundNumber, r); err != nil {
			return fmt.Errorf("replacing result for round %d: %w", roundNumber, err)
		}
	}
	l.results[idx] = r

	slog.Info("race result updated", "round", roundNumber)
	return nil
}

// Remove drops every result for roundNumber.
func (l *Ledger) Remove(ctx context.Context, roundNumber int) error {
	if roundNumber < 1 {
		return model.Validationf("invalid round number: %d", roundNumber)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store != nil {
		if err := l.store.DeleteResult(ctx, roundNumber); err != nil {
			return fmt.Errorf("removing result for round %d: %w", roundNumber, err)
		}
	}
	l.results = slices.DeleteFunc(l.results, func(e model.HistoricalResult) bool {
		return e.RoundNumber == roundNumber
	})

	slog.Info("race result removed", "round", roundNumber)
	return nil
}

// Clear removes all results.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store != nil {
		if err := l.store.DeleteAllResults(ctx); err != nil {
			return fmt.Errorf("clearing results: %w", err)
		}
	}
	l.results = nil
	return nil
}

// Load replaces the in-memory ledger with the store contents.
// Every row's digest is verified; on mismatch nothing is replaced.
func (l *Ledger) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}

	rows, err := l.store.LoadAllResults(ctx)
	if err != nil {
		return fmt.Errorf("loading results: %w", err)
	}
	for _, r := range rows {
		if !crypto.VerifyResult(r) {
			return model.Validationf("digest mismatch for stored result of round %d", r.RoundNumber)
		}
	}

	l.mu.Lock()
	l.results = rows
	l.mu.Unlock()

	slog.Info("race results loaded", "count", len(rows))
	return nil
}

// All returns a copy of every result in insertion order.
func (l *Ledger) All() []model.HistoricalResult {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.HistoricalResult, 0, len(l.results))
	for _, r := range l.results {
		out = append(out, r.Clone())
	}
	return out
}

// ByRound returns the first result for roundNumber.
func (l *Ledger) ByRound(roundNumber int) (model.HistoricalResult, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, r := range l.results {
		if r.RoundNumber == roundNumber {
			return r.Clone(), true
		}
	}
	return model.HistoricalResult{}, false
}

// Latest returns the most recently added result.
func (l *Ledger) Latest() (model.HistoricalResult, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.results) == 0 {
		return model.HistoricalResult{}, false
	}
	return l.results[len(l.results)-1].Clone(), true
}

// ForRounds returns results whose round number is in roundNumbers,
// in insertion order.
func (l *Ledger) ForRounds(roundNumbers ...int) []model.HistoricalResult {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.HistoricalResult
	for _, r := range l.results {
		if slices.Contains(roundNumbers, r.RoundNumber) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Count returns the number of stored results.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.results)
}

// HasResults reports whether any result is stored.
func (l *Ledger) HasResults() bool {
	return l.Count() > 0
}

// sealed returns a private copy of r with its digest computed.
func sealed(r model.HistoricalResult) model.HistoricalResult {
	r = r.Clone()
	r.Digest = crypto.ResultDigest(r.RoundNumber, r.Distance, r.Rankings)
	return r
}
