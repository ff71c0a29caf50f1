package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	mdrender "github.com/inkpost/mdrender"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Exit codes.
const (
	exitSuccess = 0
	exitError   = 1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags, inputs, err := parseFlags(args, os.Stderr)
	if err != nil {
		return exitError
	}

	logger := newLogger(flags.verbose)
	slog.SetDefault(logger)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is
	// invalid, in which case runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, a ...interface{}) {
		logger.Debug(fmt.Sprintf(format, a...))
	}))

	jobs, err := discoverJobs(inputs, flags.out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}

	var opts []mdrender.Option
	opts = append(opts, mdrender.WithLogger(logger))
	if flags.config != "" {
		opts = append(opts, mdrender.WithConfigFile(flags.config))
	}

	poolSize := mdrender.ResolvePoolSize(flags.workers)
	logger.Debug("starting batch render", "files", len(jobs), "workers", poolSize)

	pool, err := mdrender.NewServicePool(poolSize, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := renderBatch(ctx, pool, jobs, flags)
	return report(results, logger)
}

// report prints per-file outcomes and returns the process exit code.
func report(results []renderResult, logger *slog.Logger) int {
	code := exitSuccess
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.InputPath, r.Err)
			code = exitError
			continue
		}
		if r.OutputPath != stdoutPath {
			logger.Debug("rendered", "input", r.InputPath, "output", r.OutputPath, "duration", r.Duration)
			fmt.Printf("Rendered %s\n", r.OutputPath)
		}
	}
	return code
}

// newLogger builds the stderr logger; verbose mode enables debug
// records from the pipeline.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
