package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/udisondev/hippodrome/internal/model"
)

// MockResultStore — in-memory ledger.Store для unit тестов.
// Не требует реального PostgreSQL. Умеет симулировать ошибки.
type MockResultStore struct {
	mu   sync.Mutex
	rows []model.HistoricalResult

	fail         bool
	appendCalls  int
	failOnAppend int
}

// NewMockResultStore создаёт пустой MockResultStore.
func NewMockResultStore() *MockResultStore {
	return &MockResultStore{}
}

// SetFail включает/выключает ErrSimulated для всех операций.
func (m *MockResultStore) SetFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

// FailOnAppend makes the n-th AppendResult call (1-based) fail.
func (m *MockResultStore) FailOnAppend(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOnAppend = n
}

// AppendCalls returns how many times AppendResult was called.
func (m *MockResultStore) AppendCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendCalls
}

// Rows returns a copy of the stored rows.
func (m *MockResultStore) Rows() []model.HistoricalResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.rows)
}

// Seed replaces the stored rows as-is, bypassing digests.
func (m *MockResultStore) Seed(rows ...model.HistoricalResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = slices.Clone(rows)
}

func (m *MockResultStore) AppendResult(_ context.Context, r model.HistoricalResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.appendCalls++
	if m.fail || m.appendCalls == m.failOnAppend {
		return ErrSimulated
	}
	m.rows = append(m.rows, r)
	return nil
}

func (m *MockResultStore) ReplaceResult(_ context.Context, roundNumber int, r model.HistoricalResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return ErrSimulated
	}
	for i := range m.rows {
		if m.rows[i].RoundNumber == roundNumber {
			m.rows[i] = r
			break
		}
	}
	return nil
}

func (m *MockResultStore) DeleteResult(_ context.Context, roundNumber int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return ErrSimulated
	}
	m.rows = slices.DeleteFunc(m.rows, func(r model.HistoricalResult) bool {
		return r.RoundNumber == roundNumber
	})
	return nil
}

func (m *MockResultStore) DeleteAllResults(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return ErrSimulated
	}
	m.rows = nil
	return nil
}

func (m *MockResultStore) LoadAllResults(context.Context) ([]model.HistoricalResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return nil, ErrSimulated
	}
	return slices.Clone(m.rows), nil
}
