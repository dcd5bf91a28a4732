package model

import (
	"time"

	"github.com/google/uuid"
)

// Round is one scheduled race.
// Completed and Results are filled in place when the race finishes.
type Round struct {
	Number       int
	Distance     float64
	Participants []*Horse
	Completed    bool
	Results      []RaceOutcome
}

// Clone returns a copy that shares horses but not slices.
func (r *Round) Clone() *Round {
	if r == nil {
		return nil
	}
	c := *r
	c.Participants = append([]*Horse(nil), r.Participants...)
	c.Results = append([]RaceOutcome(nil), r.Results...)
	return &c
}

// RaceOutcome is one line of a ranked race result.
type RaceOutcome struct {
	Position   int
	Horse      *Horse
	FinishTime float64 // time units, two decimals
}

// HistoricalResult is a finalized round stored in the ledger.
type HistoricalResult struct {
	RunID       uuid.UUID
	RoundNumber int
	Distance    float64
	Rankings    []RaceOutcome
	CompletedAt time.Time
	Digest      string
}

// Clone returns a deep copy of the rankings slice.
func (r HistoricalResult) Clone() HistoricalResult {
	r.Rankings = append([]RaceOutcome(nil), r.Rankings...)
	return r
}

// Winner returns the first-ranked outcome, if any.
func (r HistoricalResult) Winner() (RaceOutcome, bool) {
	if len(r.Rankings) == 0 {
		return RaceOutcome{}, false
	}
	return r.Rankings[0], true
}
