// Package pipeline classifies and repairs individual files and runs a
// batch of them across a worker pool.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dd0wney/enc3-recover/pkg/enc3"
	"github.com/dd0wney/enc3-recover/pkg/logging"
	"github.com/dd0wney/enc3-recover/pkg/metrics"
	"github.com/dd0wney/enc3-recover/pkg/replace"
	"github.com/dd0wney/enc3-recover/pkg/stats"
)

// Decoder searches for the delta that decodes a container.
type Decoder interface {
	TryDecode(buf []byte) (enc3.Result, error)
}

// Writer replaces a file's content in place.
type Writer interface {
	Replace(path string, content []byte) (replace.Result, error)
}

// Processor handles one file at a time and is safe for concurrent use.
type Processor struct {
	decoder  Decoder
	writer   Writer
	stats    *stats.Stats
	metrics  *metrics.Registry
	logger   logging.Logger
	readFile func(string) ([]byte, error)
}

// NewProcessor builds a processor. metrics and logger may be nil.
func NewProcessor(decoder Decoder, writer Writer, st *stats.Stats, reg *metrics.Registry, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Processor{
		decoder:  decoder,
		writer:   writer,
		stats:    st,
		metrics:  reg,
		logger:   logger,
		readFile: os.ReadFile,
	}
}

// Stats returns the counters outcomes are recorded into.
func (p *Processor) Stats() *stats.Stats {
	return p.stats
}

// Process reads, classifies, decodes and rewrites path, recording exactly
// one outcome. Files that are not ENC3 containers are left untouched.
func (p *Processor) Process(path string) stats.Outcome {
	op := logging.StartTimer(p.logger, "file processed", logging.File(path))
	outcome, err := p.process(path)
	p.finish(path, outcome, err, op.End(logging.String("outcome", outcome.String())))
	return outcome
}

// RecordPanic records a file whose processing panicked as failed.
func (p *Processor) RecordPanic(path string, recovered any) {
	p.finish(path, stats.Failed, fmt.Errorf("%w: %v", errPanic, recovered), 0)
}

func (p *Processor) process(path string) (stats.Outcome, error) {
	buf, err := p.readFile(path)
	if err != nil {
		return stats.Failed, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	if !enc3.IsContainer(buf) {
		return stats.Skipped, nil
	}

	res, err := p.decoder.TryDecode(buf)
	if p.metrics != nil {
		p.metrics.RecordAttempts(attempts(res, err), err == nil)
	}
	if err != nil {
		return stats.Failed, err
	}

	rep, err := p.writer.Replace(path, res.Plaintext)
	if p.metrics != nil {
		p.metrics.RecordReplace(rep.BackupKept, rep.Restored)
	}
	if rep.CleanupErr != nil {
		p.logger.Warn("backup not removed",
			logging.File(rep.Backup), logging.Error(rep.CleanupErr))
	}
	if err != nil {
		if rep.BackupKept {
			p.logger.Warn("backup kept", logging.File(rep.Backup), logging.Bool("restored", rep.Restored))
		}
		return stats.Failed, err
	}

	if p.metrics != nil {
		p.metrics.RecordDecoded(res.Delta, len(res.Plaintext))
	}
	p.logger.Info("decoded",
		logging.File(path),
		logging.Delta(res.Delta),
		logging.Attempts(res.Attempts),
		logging.Int("bytes", len(res.Plaintext)))
	return stats.Succeeded, nil
}

// finish logs failures and records the outcome. Stats move last so a
// processed count never runs ahead of the diagnostics.
func (p *Processor) finish(path string, outcome stats.Outcome, err error, elapsed time.Duration) {
	switch outcome {
	case stats.Failed:
		kind := Kind(err)
		p.logger.Error("processing failed",
			logging.File(path), logging.Kind(kind), logging.Error(err))
		if p.metrics != nil {
			p.metrics.RecordFailure(kind)
		}
	case stats.Skipped:
		p.logger.Debug("skipped, not an ENC3 container", logging.File(path))
	}

	if p.metrics != nil {
		p.metrics.RecordFile(outcome.String(), elapsed)
	}
	p.stats.Record(outcome)
}

func attempts(res enc3.Result, err error) int {
	if err == nil {
		return res.Attempts
	}
	var ex *enc3.ExhaustedError
	if errors.As(err, &ex) {
		return len(ex.Tried)
	}
	return 0
}
