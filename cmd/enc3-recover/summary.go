package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/enc3-recover/pkg/stats"
)

// renderSummary formats the end-of-run box. Colors follow what w supports,
// so redirected output stays plain.
func renderSummary(w io.Writer, s stats.Snapshot, total int, elapsed time.Duration) string {
	r := lipgloss.NewRenderer(w)

	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF00FF"))
	ok := r.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	bad := r.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	dim := r.NewStyle().Foreground(lipgloss.Color("#888888"))
	box := r.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		Padding(0, 2)

	body := lipgloss.JoinVertical(lipgloss.Left,
		title.Render("Processing complete"),
		"",
		fmt.Sprintf("processed: %d/%d", s.Processed, total),
		ok.Render(fmt.Sprintf("succeeded: %d", s.Succeeded)),
		bad.Render(fmt.Sprintf("failed:    %d", s.Failed)),
		dim.Render(fmt.Sprintf("skipped:   %d", s.Skipped)),
		dim.Render(fmt.Sprintf("elapsed:   %s", elapsed.Round(time.Millisecond))),
	)
	return box.Render(body)
}
