package db

import (
	"context"
	"testing"

	"github.com/udisondev/hippodrome/internal/testutil"
)

// setupRepository поднимает PostgreSQL testcontainer с миграциями.
// В -short режиме тест пропускается (нужен Docker).
func setupRepository(t *testing.T) *RaceResultRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	pool := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `TRUNCATE race_results`)
	})
	return NewRaceResultRepository(pool)
}
