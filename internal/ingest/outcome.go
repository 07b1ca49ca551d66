package ingest

import "time"

// RowResult reports the outcome of ingesting one billing row.
type RowResult struct {
	RowIndex int
	RecordID string
	Err      error
}

// BatchSummary aggregates the outcome of a full ingestion run.
type BatchSummary struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Total     int
	Succeeded int
	Failed    int
	// Errors holds the first few row failures for diagnostics. The full
	// failure count is in Failed.
	Errors []RowResult
}

// errorSampleLimit caps how many row failures a summary carries.
const errorSampleLimit = 5

func (s *BatchSummary) record(r RowResult) {
	s.Total++
	if r.Err != nil {
		s.Failed++
		if len(s.Errors) < errorSampleLimit {
			s.Errors = append(s.Errors, r)
		}
		return
	}
	s.Succeeded++
}
