package models

import "math"

// ProgressSnapshot is a point-in-time view of the current prefetch batch.
// Completed counts resolved attempts, successful or not; Percentage is the
// rounded completion ratio, or 0 when the batch is empty.
type ProgressSnapshot struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Percentage int `json:"percentage"`
}

// NewProgressSnapshot builds a snapshot, deriving Percentage from the counts.
func NewProgressSnapshot(total, completed, inProgress int) ProgressSnapshot {
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return ProgressSnapshot{
		Total:      total,
		Completed:  completed,
		InProgress: inProgress,
		Percentage: percentage,
	}
}
