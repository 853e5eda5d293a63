package progress

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/enc3-recover/pkg/stats"
)

const maxBarWidth = 60

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	succeededStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	skippedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 2)
)

type snapshotMsg struct {
	snap  stats.Snapshot
	total int
}

type finalMsg snapshotMsg

type logLineMsg string

type model struct {
	bar   progress.Model
	snap  stats.Snapshot
	total int
	start time.Time
	final bool
}

func newModel(total int) model {
	return model{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth)),
		total: total,
		start: time.Now(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-8, 10), maxBarWidth)

	case snapshotMsg:
		m.snap, m.total = msg.snap, msg.total

	case finalMsg:
		m.snap, m.total = msg.snap, msg.total
		m.final = true
		return m, tea.Quit

	case logLineMsg:
		return m, tea.Println(string(msg))

	case tea.KeyMsg:
		// Closing the view does not stop the workers.
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var s strings.Builder

	title := "Decoding ENC3 files"
	if m.final {
		title = "Done"
	}
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")
	s.WriteString(m.bar.ViewAs(m.snap.Percent(m.total) / 100))
	s.WriteString(fmt.Sprintf("\n%d/%d files  %s\n\n", m.snap.Processed, m.total,
		time.Since(m.start).Round(time.Second)))
	s.WriteString(succeededStyle.Render(fmt.Sprintf("succeeded: %d", m.snap.Succeeded)))
	s.WriteString("  ")
	s.WriteString(failedStyle.Render(fmt.Sprintf("failed: %d", m.snap.Failed)))
	s.WriteString("  ")
	s.WriteString(skippedStyle.Render(fmt.Sprintf("skipped: %d", m.snap.Skipped)))

	return boxStyle.Render(s.String()) + "\n"
}

// TUIReporter renders progress as a bubbletea program. It also implements
// io.Writer so log lines can be printed above the live view.
type TUIReporter struct {
	program  *tea.Program
	fallback io.Writer
	done     chan struct{}
	err      error
}

// NewTUIReporter builds a reporter for a run of total files. Log lines
// written after the view has exited go to fallback.
func NewTUIReporter(total int, fallback io.Writer, opts ...tea.ProgramOption) *TUIReporter {
	return &TUIReporter{
		program:  tea.NewProgram(newModel(total), opts...),
		fallback: fallback,
		done:     make(chan struct{}),
	}
}

// Start runs the program in the background.
func (r *TUIReporter) Start() {
	go func() {
		defer close(r.done)
		_, r.err = r.program.Run()
	}()
}

// Report implements Reporter.
func (r *TUIReporter) Report(s stats.Snapshot, total int) {
	r.program.Send(snapshotMsg{snap: s, total: total})
}

// Final implements Reporter. It waits for the program to exit.
func (r *TUIReporter) Final(s stats.Snapshot, total int) {
	r.program.Send(finalMsg{snap: s, total: total})
	<-r.done
}

// Err returns the program's exit error once Final has returned.
func (r *TUIReporter) Err() error {
	return r.err
}

// Write implements io.Writer.
func (r *TUIReporter) Write(p []byte) (int, error) {
	select {
	case <-r.done:
		if r.fallback == nil {
			return len(p), nil
		}
		return r.fallback.Write(p)
	default:
	}
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		r.program.Send(logLineMsg(line))
	}
	return len(p), nil
}
