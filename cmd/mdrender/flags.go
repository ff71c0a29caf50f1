package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// renderFlags holds all flags for the render command.
type renderFlags struct {
	out      string
	baseURL  string
	config   string
	workers  int
	abstract bool
	verbose  bool
}

// parseFlags parses command-line flags and returns the positional
// input paths.
func parseFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("mdrender", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &renderFlags{}

	fs.StringVarP(&f.out, "out", "o", "", "output file or directory (default: .html next to each source)")
	fs.StringVar(&f.baseURL, "base-url", "", "page URL used in self-links")
	fs.StringVarP(&f.config, "config", "c", "", "renderer config file (YAML)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.abstract, "abstract", false, "render in abstract mode")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log pipeline details to stderr")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: mdrender [flags] <file|dir>...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
