// Package stats tracks per-run outcome counters.
package stats

import (
	"fmt"
	"sync/atomic"
)

// Outcome is the classification of one processed file.
type Outcome int

const (
	Succeeded Outcome = iota + 1
	Failed
	Skipped
)

// String returns the lower-case outcome name used in logs and metric labels.
func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Stats holds four independent, increment-only counters. Each is updated
// atomically; a reader is not guaranteed a consistent view across fields.
type Stats struct {
	processed atomic.Uint64
	succeeded atomic.Uint64
	failed    atomic.Uint64
	skipped   atomic.Uint64
}

// Snapshot is a plain copy of the counters.
type Snapshot struct {
	Processed uint64
	Succeeded uint64
	Failed    uint64
	Skipped   uint64
}

// Record counts one file. The outcome counter moves before Processed, so
// once all workers are done Processed equals the sum of the outcomes.
func (s *Stats) Record(o Outcome) {
	switch o {
	case Succeeded:
		s.succeeded.Add(1)
	case Failed:
		s.failed.Add(1)
	case Skipped:
		s.skipped.Add(1)
	default:
		panic(fmt.Sprintf("stats: unknown outcome %d", o))
	}
	s.processed.Add(1)
}

// Snapshot reads every counter once.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Processed: s.processed.Load(),
		Succeeded: s.succeeded.Load(),
		Failed:    s.failed.Load(),
		Skipped:   s.skipped.Load(),
	}
}

// Outcomes returns Succeeded + Failed + Skipped.
func (s Snapshot) Outcomes() uint64 {
	return s.Succeeded + s.Failed + s.Skipped
}

// Percent returns Processed as a percentage of total.
func (s Snapshot) Percent(total int) float64 {
	if total <= 0 {
		return 100
	}
	return float64(s.Processed) / float64(total) * 100
}
