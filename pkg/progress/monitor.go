// Package progress reports run progress while workers drain the queue.
package progress

import (
	"time"

	"github.com/dd0wney/enc3-recover/pkg/stats"
)

// Defaults
const (
	DefaultPollInterval   = 100 * time.Millisecond
	DefaultReportInterval = 2 * time.Second
)

// Reporter renders progress. Report is called periodically from the
// monitor goroutine; Final exactly once when the run ends.
type Reporter interface {
	Report(s stats.Snapshot, total int)
	Final(s stats.Snapshot, total int)
}

// Counters is the read side of a run's statistics.
type Counters interface {
	Snapshot() stats.Snapshot
}

// Monitor polls counters and forwards snapshots to a Reporter.
type Monitor struct {
	Stats          Counters
	Total          int
	PollInterval   time.Duration
	ReportInterval time.Duration
	Reporter       Reporter
}

// Run blocks until done is closed, reporting at most once per
// ReportInterval, then emits the final report. The orchestrator closes done
// only after the queue is drained and every worker has returned, so the
// final snapshot is complete.
func (m *Monitor) Run(done <-chan struct{}) {
	poll := m.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	every := m.ReportInterval
	if every <= 0 {
		every = DefaultReportInterval
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-done:
			m.Reporter.Final(m.Stats.Snapshot(), m.Total)
			return
		case now := <-ticker.C:
			if now.Sub(last) >= every {
				m.Reporter.Report(m.Stats.Snapshot(), m.Total)
				last = now
			}
		}
	}
}
