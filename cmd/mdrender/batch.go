package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	mdrender "github.com/inkpost/mdrender"
	"github.com/inkpost/mdrender/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// stdoutPath marks a job whose output goes to standard output. Used
// for single-file invocations without --out.
const stdoutPath = "-"

// Sentinel errors for batch operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteHTML    = errors.New("failed to write HTML file")
)

// renderJob is a single file to render.
type renderJob struct {
	InputPath  string
	OutputPath string
}

// renderResult holds the outcome of a single render.
type renderResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// discoverJobs expands the positional inputs into render jobs.
func discoverJobs(inputs []string, outDir string) ([]renderJob, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	var jobs []renderJob
	for _, input := range inputs {
		files, err := fileutil.DiscoverMarkdown(input)
		if err != nil {
			return nil, err
		}
		if fileutil.FileExists(input) {
			out := stdoutPath
			if outDir != "" {
				out = fileutil.OutputPath(input, outDir, "")
			}
			jobs = append(jobs, renderJob{InputPath: input, OutputPath: out})
			continue
		}
		for _, f := range files {
			jobs = append(jobs, renderJob{
				InputPath:  f,
				OutputPath: fileutil.OutputPath(f, outDir, input),
			})
		}
	}
	return jobs, nil
}

// renderBatch processes jobs concurrently using the service pool.
func renderBatch(ctx context.Context, pool *mdrender.ServicePool, jobs []renderJob, flags *renderFlags) []renderResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	results := make([]renderResult, len(jobs))
	queue := make(chan int, len(jobs))
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc := pool.Acquire()
			defer pool.Release(svc)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = renderResult{
						InputPath: jobs[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = renderFile(ctx, svc, jobs[idx], flags)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// renderFile renders a single markdown file to its HTML output path.
func renderFile(ctx context.Context, svc *mdrender.Service, job renderJob, flags *renderFlags) renderResult {
	start := time.Now()
	result := renderResult{
		InputPath:  job.InputPath,
		OutputPath: job.OutputPath,
	}

	content, err := os.ReadFile(job.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		result.Duration = time.Since(start)
		return result
	}

	html, err := svc.Render(ctx, mdrender.Input{
		Markdown:   string(content),
		BaseURL:    flags.baseURL,
		IsAbstract: flags.abstract,
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := writeHTML(job.OutputPath, html); err != nil {
		result.Err = err
	}
	result.Duration = time.Since(start)
	return result
}

// writeHTML writes the fragment, creating parent directories as
// needed. The stdout marker path prints instead.
func writeHTML(path, html string) error {
	if path == stdoutPath {
		_, err := fmt.Fprint(os.Stdout, html)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteHTML, err)
		}
	}
	if err := os.WriteFile(path, []byte(html), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHTML, err)
	}
	return nil
}
