// Command enc3-recover decodes ENC3 containers in place, searching a list
// of known cipher deltas for each file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/dd0wney/enc3-recover/pkg/config"
	"github.com/dd0wney/enc3-recover/pkg/discovery"
	"github.com/dd0wney/enc3-recover/pkg/logging"
	"github.com/dd0wney/enc3-recover/pkg/metrics"
	"github.com/dd0wney/enc3-recover/pkg/pipeline"
	"github.com/dd0wney/enc3-recover/pkg/progress"
	"github.com/dd0wney/enc3-recover/pkg/stats"
)

// Exit codes
const (
	exitOK    = 0
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if opts.printConfig {
		if err := cfg.Write(stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
		return exitOK
	}

	start := time.Now()
	console := logging.NewSyncWriter(stdout)

	var (
		reporter progress.Reporter
		tui      *progress.TUIReporter
		logOut   io.Writer = console
	)
	if cfg.TUI {
		tui = progress.NewTUIReporter(0, console, tea.WithOutput(stdout))
		tui.Start()
		logOut = logging.NewSyncWriter(tui)
		reporter = tui
	} else {
		line := progress.NewLineReporter(console, isTerminal(stdout))
		logOut = line
		reporter = line
	}

	runID := uuid.NewString()
	logger := logging.New(logOut, logging.Format(cfg.LogFormat), logging.ParseLevel(cfg.LogLevel)).
		With(logging.RunID(runID))

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, a ...any) {
		logger.Debug(fmt.Sprintf(format, a...))
	}))
	if err != nil {
		logger.Warn("failed to set GOMAXPROCS", logging.Error(err))
	}
	defer undo()

	files := findFiles(opts, cfg, logger)
	if len(files) == 0 {
		logger.Info("no files found")
		if tui != nil {
			tui.Final(stats.Snapshot{}, 0)
		}
		return exitOK
	}

	reg := metrics.NewRegistry()
	st := &stats.Stats{}
	proc := pipeline.NewProcessor(cfg.BruteForcer(), cfg.Replacer(), st, reg,
		logger.With(logging.Component("worker")))

	orch := &pipeline.Orchestrator{
		Processor:      proc,
		Workers:        cfg.EffectiveWorkers(),
		Reporter:       reporter,
		Metrics:        reg,
		Logger:         logger,
		PollInterval:   cfg.PollInterval,
		ReportInterval: cfg.ReportInterval,
	}
	snap, err := orch.Run(files)
	if err != nil {
		logger.Error("run failed", logging.Error(err))
		if tui != nil {
			tui.Final(snap, len(files))
		}
		return exitUsage
	}
	if tui != nil && tui.Err() != nil {
		logger.Warn("progress view exited with error", logging.Error(tui.Err()))
	}

	if cfg.MetricsFile != "" {
		if err := reg.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("failed to write metrics", logging.Error(err))
		} else {
			logger.Info("metrics written", logging.File(cfg.MetricsFile))
		}
	}

	console.WriteString(renderSummary(stdout, snap, len(files), time.Since(start)) + "\n")
	return exitOK
}

func findFiles(opts *options, cfg *config.Config, logger logging.Logger) []string {
	finder := discovery.New(nil, logger)
	if len(opts.paths) > 0 {
		return finder.Expand(opts.paths)
	}

	root := opts.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			logger.Error("cannot determine working directory", logging.Error(err))
			return nil
		}
		root = wd
	}
	return finder.Default(root, discovery.Layout{
		Dirs:    cfg.Discovery.Dirs,
		Files:   cfg.Discovery.Files,
		Exclude: cfg.Discovery.Exclude,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && progress.IsTerminal(f)
}
