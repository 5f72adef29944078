package models

// PriorityBand selects which scheduler queue a download task enters.
type PriorityBand int

const (
	// BandHigh is drained first, most-recently-enqueued task soonest.
	BandHigh PriorityBand = iota

	// BandLow is drained after BandHigh, in enqueue order.
	BandLow
)

// String returns the string representation of the band.
func (b PriorityBand) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandLow:
		return "low"
	default:
		return "unknown"
	}
}

// DownloadTask is one segment (or sub-playlist) prefetch request. Tasks are
// ephemeral: they live only in the scheduler's queues and running set.
type DownloadTask struct {
	URL      string
	Provider string
	Band     PriorityBand
}
