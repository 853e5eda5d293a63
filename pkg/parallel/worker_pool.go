package parallel

import (
	"fmt"
	"runtime"
	"sync"
)

// Source hands out work items until it is drained.
type Source interface {
	Pop() (string, bool)
}

// Handler processes one item. It runs on a worker goroutine, outside any
// lock held by the Source.
type Handler func(item string)

// WorkerPool runs a fixed number of goroutines that drain a Source.
type WorkerPool struct {
	workers int

	// OnPanic, if set, is called with the item whose handler panicked.
	// The worker recovers and moves on to the next item either way.
	OnPanic func(item string, recovered any)
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = 4096

// DefaultWorkers returns max(1, GOMAXPROCS-1), leaving one unit of
// parallelism for the progress monitor.
func DefaultWorkers() int {
	return max(1, runtime.GOMAXPROCS(0)-1)
}

// NewWorkerPool creates a new worker pool with specified number of workers.
// A non-positive count means one worker.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}
	return &WorkerPool{workers: workers}, nil
}

// Workers returns the number of goroutines Run starts.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Run starts the workers and blocks until every one of them has observed an
// empty source and exited.
func (wp *WorkerPool) Run(src Source, handle Handler) {
	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wp.worker(src, handle)
		}()
	}
	wg.Wait()
}

// worker pops items until the source is empty
func (wp *WorkerPool) worker(src Source, handle Handler) {
	for {
		item, ok := src.Pop()
		if !ok {
			return
		}
		wp.runOne(item, handle)
	}
}

func (wp *WorkerPool) runOne(item string, handle Handler) {
	defer func() {
		if r := recover(); r != nil && wp.OnPanic != nil {
			wp.OnPanic(item, r)
		}
	}()
	handle(item)
}
