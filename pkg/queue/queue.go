// Package queue holds the fixed set of file paths a run processes.
package queue

import "sync"

// FileTaskQueue is a FIFO of file paths filled once at construction. Paths
// are handed out at most once; there is no way to push after New.
type FileTaskQueue struct {
	mu    sync.Mutex
	paths []string
	head  int
	total int
}

// New returns a queue holding a copy of paths in order.
func New(paths []string) *FileTaskQueue {
	p := make([]string, len(paths))
	copy(p, paths)
	return &FileTaskQueue{paths: p, total: len(p)}
}

// Pop removes and returns the oldest path. ok is false once the queue is
// drained.
func (q *FileTaskQueue) Pop() (path string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.paths) {
		return "", false
	}
	path = q.paths[q.head]
	q.paths[q.head] = ""
	q.head++
	return path, true
}

// Len returns the number of paths not yet popped.
func (q *FileTaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.paths) - q.head
}

// Empty reports whether every path has been popped.
func (q *FileTaskQueue) Empty() bool {
	return q.Len() == 0
}

// Total returns the number of paths the queue was created with.
func (q *FileTaskQueue) Total() int {
	return q.total
}
