package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/hippodrome/internal/model"
)

// rankingRow is one element of the race_results.rankings JSONB array.
// pgx кодирует/декодирует слайс в jsonb сам.
type rankingRow struct {
	Position   int     `json:"position"`
	HorseID    int32   `json:"horse_id"`
	Name       string  `json:"name"`
	Hue        int     `json:"hue"`
	Saturation float64 `json:"saturation"`
	Lightness  float64 `json:"lightness"`
	Condition  int32   `json:"condition"`
	FinishTime float64 `json:"finish_time"`
}

func toRankingRows(outcomes []model.RaceOutcome) []rankingRow {
	rows := make([]rankingRow, 0, len(outcomes))
	for _, o := range outcomes {
		row := rankingRow{Position: o.Position, FinishTime: o.FinishTime}
		if h := o.Horse; h != nil {
			row.HorseID = h.ID
			row.Name = h.Name
			row.Hue = h.Color.Hue
			row.Saturation = h.Color.Saturation
			row.Lightness = h.Color.Lightness
			row.Condition = h.Condition
		}
		rows = append(rows, row)
	}
	return rows
}

func fromRankingRows(rows []rankingRow) []model.RaceOutcome {
	outcomes := make([]model.RaceOutcome, 0, len(rows))
	for _, row := range rows {
		outcomes = append(outcomes, model.RaceOutcome{
			Position: row.Position,
			Horse: &model.Horse{
				ID:        row.HorseID,
				Name:      row.Name,
				Color:     model.Color{Hue: row.Hue, Saturation: row.Saturation, Lightness: row.Lightness},
				Condition: row.Condition,
			},
			FinishTime: row.FinishTime,
		})
	}
	return outcomes
}

// RaceResultRepository persists ledger entries in race_results.
// Implements ledger.Store.
type RaceResultRepository struct {
	pool *pgxpool.Pool
}

// NewRaceResultRepository creates a new RaceResultRepository.
func NewRaceResultRepository(pool *pgxpool.Pool) *RaceResultRepository {
	return &RaceResultRepository{pool: pool}
}

// AppendResult inserts a result row.
func (r *RaceResultRepository) AppendResult(ctx context.Context, res model.HistoricalResult) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO race_results (run_id, round_number, distance, rankings, digest, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		res.RunID, res.RoundNumber, res.Distance, toRankingRows(res.Rankings), res.Digest, res.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert race result round %d: %w", res.RoundNumber, err)
	}
	return nil
}

// ReplaceResult overwrites the earliest row for roundNumber.
func (r *RaceResultRepository) ReplaceResult(ctx context.Context, roundNumber int, res model.HistoricalResult) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE race_results SET
		   run_id       = $2,
		   round_number = $3,
		   distance     = $4,
		   rankings     = $5,
		   digest       = $6,
		   completed_at = $7
		 WHERE id = (SELECT id FROM race_results WHERE round_number = $1 ORDER BY id LIMIT 1)`,
		roundNumber, res.RunID, res.RoundNumber, res.Distance, toRankingRows(res.Rankings), res.Digest, res.CompletedAt)
	if err != nil {
		return fmt.Errorf("update race result round %d: %w", roundNumber, err)
	}
	return nil
}

// DeleteResult removes every row for roundNumber.
func (r *RaceResultRepository) DeleteResult(ctx context.Context, roundNumber int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM race_results WHERE round_number = $1`, roundNumber)
	if err != nil {
		return fmt.Errorf("delete race result round %d: %w", roundNumber, err)
	}
	return nil
}

// DeleteAllResults removes every row.
func (r *RaceResultRepository) DeleteAllResults(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM race_results`); err != nil {
		return fmt.Errorf("delete race results: %w", err)
	}
	return nil
}

// LoadAllResults loads every row in insertion order.
func (r *RaceResultRepository) LoadAllResults(ctx context.Context) ([]model.HistoricalResult, error) {
	return r.query(ctx,
		`SELECT run_id, round_number, distance, rankings, digest, completed_at
		 FROM race_results ORDER BY id`)
}

// LoadRunResults loads the rows of a single run in insertion order.
func (r *RaceResultRepository) LoadRunResults(ctx context.Context, runID uuid.UUID) ([]model.HistoricalResult, error) {
	return r.query(ctx,
		`SELECT run_id, round_number, distance, rankings, digest, completed_at
		 FROM race_results WHERE run_id = $1 ORDER BY id`, runID)
}

func (r *RaceResultRepository) query(ctx context.Context, sql string, args ...any) ([]model.HistoricalResult, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query race_results: %w", err)
	}
	defer rows.Close()

	var result []model.HistoricalResult
	for rows.Next() {
		var (
			res      model.HistoricalResult
			rankings []rankingRow
			done     time.Time
		)
		if err := rows.Scan(&res.RunID, &res.RoundNumber, &res.Distance, &rankings, &res.Digest, &done); err != nil {
			return nil, fmt.Errorf("scan race_results: %w", err)
		}
		res.Rankings = fromRankingRows(rankings)
		res.CompletedAt = done.UTC()
		result = append(result, res)
	}
	return result, rows.Err()
}
