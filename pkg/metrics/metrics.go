package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordFile records one processed file with its outcome and duration
func (r *Registry) RecordFile(outcome string, duration time.Duration) {
	r.FilesTotal.WithLabelValues(outcome).Inc()
	r.FileDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordAttempts records a delta search that made attempts calls. When
// matched is true the final call succeeded.
func (r *Registry) RecordAttempts(attempts int, matched bool) {
	failed := attempts
	if matched {
		failed--
		r.DecodeAttemptsTotal.WithLabelValues("success").Inc()
	}
	if failed > 0 {
		r.DecodeAttemptsTotal.WithLabelValues("failure").Add(float64(failed))
	}
}

// RecordDecoded records a successful decode and the plaintext size written
func (r *Registry) RecordDecoded(delta uint32, bytes int) {
	r.DeltaMatchesTotal.WithLabelValues(fmt.Sprintf("0x%08x", delta)).Inc()
	r.BytesDecodedTotal.Add(float64(bytes))
}

// RecordFailure records a failed file by error kind
func (r *Registry) RecordFailure(kind string) {
	r.FailuresTotal.WithLabelValues(kind).Inc()
}

// RecordReplace records what a replace left behind
func (r *Registry) RecordReplace(backupKept, restored bool) {
	if backupKept {
		r.BackupsLeftTotal.Inc()
	}
	if restored {
		r.RestoresTotal.Inc()
	}
}

// StartRun sets the run gauges
func (r *Registry) StartRun(workers, files int, start time.Time) {
	r.Workers.Set(float64(workers))
	r.FilesQueued.Set(float64(files))
	r.RunStartSeconds.Set(float64(start.Unix()))
}

// EndRun records the run's wall time
func (r *Registry) EndRun(duration time.Duration) {
	r.RunDuration.Set(duration.Seconds())
}

// WriteTextfile writes every metric to path in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
