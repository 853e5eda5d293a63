package pipeline

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/enc3-recover/pkg/logging"
	"github.com/dd0wney/enc3-recover/pkg/metrics"
	"github.com/dd0wney/enc3-recover/pkg/parallel"
	"github.com/dd0wney/enc3-recover/pkg/progress"
	"github.com/dd0wney/enc3-recover/pkg/queue"
	"github.com/dd0wney/enc3-recover/pkg/stats"
)

// Orchestrator runs a batch of files through a Processor.
type Orchestrator struct {
	Processor *Processor
	Workers   int
	Reporter  progress.Reporter
	Metrics   *metrics.Registry
	Logger    logging.Logger

	PollInterval   time.Duration
	ReportInterval time.Duration
}

// Run queues files, drains the queue with Workers goroutines while a
// monitor reports progress, and returns the final counters. Per-file
// failures never stop the run; the only error is an invalid worker count.
func (o *Orchestrator) Run(files []string) (stats.Snapshot, error) {
	pool, err := parallel.NewWorkerPool(o.Workers)
	if err != nil {
		return stats.Snapshot{}, err
	}
	pool.OnPanic = o.Processor.RecordPanic

	logger := o.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	q := queue.New(files)
	start := time.Now()
	if o.Metrics != nil {
		o.Metrics.StartRun(pool.Workers(), q.Total(), start)
	}
	logger.Info("starting run", logging.Count(q.Total()), logging.Int("workers", pool.Workers()))

	monitor := &progress.Monitor{
		Stats:          o.Processor.Stats(),
		Total:          q.Total(),
		PollInterval:   o.PollInterval,
		ReportInterval: o.ReportInterval,
		Reporter:       o.Reporter,
	}

	done := make(chan struct{})
	var g errgroup.Group
	g.Go(func() error {
		defer close(done)
		pool.Run(q, func(path string) { o.Processor.Process(path) })
		return nil
	})
	if o.Reporter != nil {
		g.Go(func() error {
			monitor.Run(done)
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Since(start)
	if o.Metrics != nil {
		o.Metrics.EndRun(elapsed)
	}
	snap := o.Processor.Stats().Snapshot()
	logger.Info("run complete",
		logging.Uint64("processed", snap.Processed),
		logging.Uint64("succeeded", snap.Succeeded),
		logging.Uint64("failed", snap.Failed),
		logging.Uint64("skipped", snap.Skipped),
		logging.Latency(elapsed))
	return snap, nil
}
