package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry is nil")
	}

	// Vectors only appear once a label set is used; plain metrics always do.
	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"enc3_bytes_decoded_total",
		"enc3_backups_left_total",
		"enc3_restores_total",
		"enc3_workers",
		"enc3_files_queued",
		"enc3_run_duration_seconds",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}

func TestRecordFile(t *testing.T) {
	r := NewRegistry()

	r.RecordFile("succeeded", 2*time.Millisecond)
	r.RecordFile("succeeded", 3*time.Millisecond)
	r.RecordFile("skipped", time.Microsecond)

	if got := counterValue(t, r.FilesTotal.WithLabelValues("succeeded")); got != 2 {
		t.Errorf("succeeded counter = %v, want 2", got)
	}
	if got := counterValue(t, r.FilesTotal.WithLabelValues("skipped")); got != 1 {
		t.Errorf("skipped counter = %v, want 1", got)
	}

	hist, err := r.FileDuration.GetMetricWithLabelValues("succeeded")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := hist.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("histogram sample count = %v, want 2", metric.Histogram.GetSampleCount())
	}
}

func TestRecordAttempts(t *testing.T) {
	tests := []struct {
		name        string
		attempts    int
		matched     bool
		wantSuccess float64
		wantFailure float64
	}{
		{"first try", 1, true, 1, 0},
		{"fifth candidate", 6, true, 1, 5},
		{"exhausted", 12, false, 0, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			r.RecordAttempts(tt.attempts, tt.matched)

			if got := counterValue(t, r.DecodeAttemptsTotal.WithLabelValues("success")); got != tt.wantSuccess {
				t.Errorf("success = %v, want %v", got, tt.wantSuccess)
			}
			if got := counterValue(t, r.DecodeAttemptsTotal.WithLabelValues("failure")); got != tt.wantFailure {
				t.Errorf("failure = %v, want %v", got, tt.wantFailure)
			}
		})
	}
}

func TestRecordDecoded(t *testing.T) {
	r := NewRegistry()

	r.RecordDecoded(0x9e3779b9, 100)
	r.RecordDecoded(0x18ef, 50)

	if got := counterValue(t, r.DeltaMatchesTotal.WithLabelValues("0x9e3779b9")); got != 1 {
		t.Errorf("default delta matches = %v, want 1", got)
	}
	if got := counterValue(t, r.DeltaMatchesTotal.WithLabelValues("0x000018ef")); got != 1 {
		t.Errorf("0x18ef matches = %v, want 1", got)
	}
	if got := counterValue(t, r.BytesDecodedTotal); got != 150 {
		t.Errorf("bytes decoded = %v, want 150", got)
	}
}

func TestRecordFailureAndReplace(t *testing.T) {
	r := NewRegistry()

	r.RecordFailure("TruncatedPayload")
	r.RecordFailure("TruncatedPayload")
	r.RecordReplace(true, true)
	r.RecordReplace(false, false)

	if got := counterValue(t, r.FailuresTotal.WithLabelValues("TruncatedPayload")); got != 2 {
		t.Errorf("failures = %v, want 2", got)
	}
	if got := counterValue(t, r.BackupsLeftTotal); got != 1 {
		t.Errorf("backups left = %v, want 1", got)
	}
	if got := counterValue(t, r.RestoresTotal); got != 1 {
		t.Errorf("restores = %v, want 1", got)
	}
}

func TestRunGauges(t *testing.T) {
	r := NewRegistry()
	start := time.Unix(1700000000, 0)

	r.StartRun(7, 120, start)
	r.EndRun(1500 * time.Millisecond)

	tests := []struct {
		name     string
		gauge    prometheus.Gauge
		expected float64
	}{
		{"Workers", r.Workers, 7},
		{"FilesQueued", r.FilesQueued, 120},
		{"RunStartSeconds", r.RunStartSeconds, 1700000000},
		{"RunDuration", r.RunDuration, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gaugeValue(t, tt.gauge); got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordFile("failed", time.Millisecond)
	r.StartRun(3, 10, time.Now())

	path := filepath.Join(t.TempDir(), "enc3.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`enc3_files_total{outcome="failed"} 1`,
		"enc3_workers 3",
		"# HELP enc3_files_queued",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("textfile missing %q:\n%s", want, text)
		}
	}
}

func TestWriteTextfile_BadPath(t *testing.T) {
	r := NewRegistry()
	path := filepath.Join(t.TempDir(), "missing", "dir", "enc3.prom")
	if err := r.WriteTextfile(path); err == nil {
		t.Error("expected error for missing directory")
	}
}
