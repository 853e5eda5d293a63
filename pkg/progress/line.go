package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/dd0wney/enc3-recover/pkg/logging"
	"github.com/dd0wney/enc3-recover/pkg/stats"
)

// clearLine returns the cursor to column 0 and erases the line.
const clearLine = "\r\x1b[K"

// LineReporter writes one text line per report through a shared
// SyncWriter, so progress never splits a log line. In in-place mode log
// output should be routed through Write so it lands above the progress
// line instead of being appended to it.
type LineReporter struct {
	out     *logging.SyncWriter
	inPlace bool

	mu      sync.Mutex
	pending string // in-place progress line currently on screen
}

// NewLineReporter returns a reporter writing to w. When inPlace is set each
// report overwrites the previous one on the same terminal line.
func NewLineReporter(w io.Writer, inPlace bool) *LineReporter {
	return &LineReporter{out: logging.NewSyncWriter(w), inPlace: inPlace}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Report implements Reporter.
func (r *LineReporter) Report(s stats.Snapshot, total int) {
	line := FormatProgress(s, total)
	if !r.inPlace {
		r.out.WriteString(line + "\n")
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = line
	r.out.WriteString(clearLine + line)
}

// Final implements Reporter.
func (r *LineReporter) Final(s stats.Snapshot, total int) {
	line := FormatFinal(s, total)
	if !r.inPlace {
		r.out.WriteString(line + "\n")
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = ""
	r.out.WriteString(clearLine + line + "\n")
}

// Write writes complete lines of log output. In in-place mode the progress
// line is erased first and redrawn below p.
func (r *LineReporter) Write(p []byte) (int, error) {
	if !r.inPlace {
		return r.out.Write(p)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == "" {
		return r.out.Write(p)
	}
	buf := make([]byte, 0, len(clearLine)+len(p)+len(r.pending))
	buf = append(buf, clearLine...)
	buf = append(buf, p...)
	buf = append(buf, r.pending...)
	if _, err := r.out.Write(buf); err != nil {
		return 0, err
	}
	return len(p), nil
}

// FormatProgress renders a periodic progress line.
func FormatProgress(s stats.Snapshot, total int) string {
	return fmt.Sprintf("[PROGRESS] %d/%d (%.1f%%) | succeeded: %d | failed: %d | skipped: %d",
		s.Processed, total, s.Percent(total), s.Succeeded, s.Failed, s.Skipped)
}

// FormatFinal renders the end-of-run line.
func FormatFinal(s stats.Snapshot, total int) string {
	return fmt.Sprintf("[FINAL] processed: %d/%d | succeeded: %d | failed: %d | skipped: %d",
		s.Processed, total, s.Succeeded, s.Failed, s.Skipped)
}
