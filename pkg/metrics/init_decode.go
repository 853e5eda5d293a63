package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDecodeMetrics() {
	r.FilesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "files_total",
			Help:      "Files processed, by outcome",
		},
		[]string{"outcome"},
	)

	r.DecodeAttemptsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "decode_attempts_total",
			Help:      "Decode calls made by the delta search, by result",
		},
		[]string{"result"},
	)

	r.DeltaMatchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "delta_matches_total",
			Help:      "Successful decodes, by the delta that worked",
		},
		[]string{"delta"},
	)

	r.FailuresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "failures_total",
			Help:      "Failed files, by error kind",
		},
		[]string{"kind"},
	)

	r.BytesDecodedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "bytes_decoded_total",
			Help:      "Plaintext bytes written back to disk",
		},
	)

	r.FileDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "file_duration_seconds",
			Help:      "Time to process one file, by outcome",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"outcome"},
	)

	r.BackupsLeftTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "backups_left_total",
			Help:      "Backup files left on disk after a failed or unclean replace",
		},
	)

	r.RestoresTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "restores_total",
			Help:      "Files restored from backup after a failed write",
		},
	)
}
