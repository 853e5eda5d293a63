package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dd0wney/enc3-recover/pkg/config"
)

type options struct {
	configPath  string
	workers     int
	logLevel    string
	logFormat   string
	tui         bool
	metricsFile string
	noRestore   bool
	root        string
	printConfig bool
	paths       []string

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("enc3-recover", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `enc3-recover - decode ENC3 containers in place

Usage:
  enc3-recover [flags] [paths...]

With no paths, searches the working directory for init.lua and the data,
modules, mods and layouts directories.

Flags:
`)
		fs.PrintDefaults()
	}

	opts := &options{set: map[string]bool{}}
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.IntVar(&opts.workers, "workers", 0, "decode workers (0 = one less than available CPUs)")
	fs.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&opts.logFormat, "log-format", config.DefaultLogFormat, "log format: text or json")
	fs.BoolVar(&opts.tui, "tui", false, "show an interactive progress view")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file when done")
	fs.BoolVar(&opts.noRestore, "no-restore", false, "keep a failed write as is instead of restoring from backup")
	fs.StringVar(&opts.root, "root", "", "directory searched when no paths are given (default: working directory)")
	fs.BoolVar(&opts.printConfig, "print-config", false, "print the effective config as YAML and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	opts.paths = fs.Args()
	return opts, nil
}

// loadConfig reads the config file, if any, and applies explicitly set
// flags on top of it.
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	if opts.set["workers"] {
		cfg.Workers = opts.workers
	}
	if opts.set["log-level"] {
		cfg.LogLevel = strings.ToLower(opts.logLevel)
	}
	if opts.set["log-format"] {
		cfg.LogFormat = strings.ToLower(opts.logFormat)
	}
	if opts.set["tui"] {
		cfg.TUI = opts.tui
	}
	if opts.set["metrics-file"] {
		cfg.MetricsFile = opts.metricsFile
	}
	if opts.noRestore {
		cfg.Replace.RestoreOnFailure = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
