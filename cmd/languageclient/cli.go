package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/nvimlc/languageclient/internal/client"
	"github.com/nvimlc/languageclient/internal/config"
)

const (
	exitOK       = 0
	exitConfig   = 1
	exitInternal = 2
)

type cliOptions struct {
	configPath   string
	settingsPath string
	logDir       string
	commandsPath string
}

func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string, getenv func(string) string) int {
	opts, usage, err := parseArgs(args)
	if err != nil {
		writef(stderr, "languageclient: %v\n%s", err, usage)
		return exitConfig
	}

	logDir := opts.logDir
	if logDir == "" {
		logDir = config.DefaultLogDir(getenv)
	}
	cfg, err := config.Load(opts.configPath, config.Default(logDir))
	if err != nil {
		writef(stderr, "languageclient: %v\n", err)
		return exitConfig
	}
	if opts.settingsPath != "" {
		raw, err := os.ReadFile(opts.settingsPath)
		if err != nil {
			writef(stderr, "languageclient: read settings: %v\n", err)
			return exitConfig
		}
		if cfg, err = cfg.MergeJSON(raw); err != nil {
			writef(stderr, "languageclient: %v\n", err)
			return exitConfig
		}
	}

	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		writef(stderr, "languageclient: open log: %v\n", err)
		return exitConfig
	}
	defer logFile.Close()

	level, err := cfg.Level()
	if err != nil {
		writef(stderr, "languageclient: %v\n", err)
		return exitConfig
	}
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	minSeverity, err := cfg.Severity()
	if err != nil {
		writef(stderr, "languageclient: %v\n", err)
		return exitConfig
	}

	var commandsOut io.Writer = stderr
	if opts.commandsPath != "" {
		f, err := os.OpenFile(opts.commandsPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			writef(stderr, "languageclient: open commands output: %v\n", err)
			return exitConfig
		}
		defer f.Close()
		commandsOut = f
	}

	ep := client.NewEndpoint(&lineEditor{w: commandsOut}, minSeverity, logger)
	logger.Info("language client started", "log", cfg.LogPath(), "minSeverity", minSeverity)

	if err := ep.Run(ctx, stdin, stdout); err != nil {
		logger.Error("endpoint terminated", "err", err)
		writef(stderr, "languageclient: %v\n", err)
		return exitInternal
	}
	return exitOK
}

func parseArgs(args []string) (cliOptions, string, error) {
	var opts cliOptions
	var usage strings.Builder
	fs := flag.NewFlagSet("languageclient", flag.ContinueOnError)
	fs.SetOutput(&usage)

	fs.StringVar(&opts.configPath, "config", "", "path to the TOML client configuration")
	fs.StringVar(&opts.settingsPath, "settings", "", "path to editor-pushed JSON settings merged over the configuration")
	fs.StringVar(&opts.logDir, "logdir", "", "directory for the client log (default: TMP, then TEMP, then /tmp)")
	fs.StringVar(&opts.commandsPath, "commands", "", "file receiving editor command batches (default: stderr)")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, usage.String(), err
	}
	if fs.NArg() > 0 {
		fs.PrintDefaults()
		return cliOptions{}, usage.String(), fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, "", nil
}

// lineEditor writes each command batch as one line for the host editor
// to read and evaluate.
type lineEditor struct {
	mu sync.Mutex
	w  io.Writer
}

func (e *lineEditor) Execute(cmd string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := fmt.Fprintln(e.w, cmd)
	return err
}

func writef(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
