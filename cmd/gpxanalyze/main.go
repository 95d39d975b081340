package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"backend-trailhub/internal/config"
	"backend-trailhub/internal/gpxanalysis"

	"github.com/schollz/progressbar/v3"
)

type Args struct {
	Paths    []string
	Interval time.Duration
	MinKmh   float64
	MaxKmh   float64
	Timezone string
	Pretty   bool
	Quiet    bool
}

// Report is one analyzed file; exactly one of Result and Error is set.
type Report struct {
	File   string              `json:"file"`
	Result *gpxanalysis.Result `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func main() {
	cfg := config.Load()
	args, err := parseArgs(os.Args[1:], cfg, os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	failed, err := run(args, os.Stdout, os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func parseArgs(argv []string, cfg config.Config, stderr io.Writer) (Args, error) {
	fsFlags := flag.NewFlagSet("gpxanalyze", flag.ContinueOnError)
	fsFlags.SetOutput(stderr)
	fsFlags.Usage = func() {
		fmt.Fprintln(stderr, "usage: gpxanalyze [flags] <file.gpx|dir>...")
		fsFlags.PrintDefaults()
	}

	var args Args
	fsFlags.DurationVar(&args.Interval, "interval", cfg.AnalysisSampleInterval, "Timeline sampling interval.")
	fsFlags.Float64Var(&args.MinKmh, "min-speed", cfg.AnalysisMinSpeedKmh, "Slowest speed (km/h) still counted as moving.")
	fsFlags.Float64Var(&args.MaxKmh, "max-speed", cfg.AnalysisMaxSpeedKmh, "Fastest speed (km/h) still counted as moving.")
	fsFlags.StringVar(&args.Timezone, "tz", cfg.AnalysisTimezone, "IANA zone for timeline clock times; empty keeps the file's zone.")
	fsFlags.BoolVar(&args.Pretty, "pretty", false, "Indent the JSON output.")
	fsFlags.BoolVar(&args.Quiet, "quiet", false, "Hide the progress bar.")
	if err := fsFlags.Parse(argv); err != nil {
		return Args{}, err
	}
	args.Paths = fsFlags.Args()
	if len(args.Paths) == 0 {
		fsFlags.Usage()
		return Args{}, errors.New("no input files")
	}
	return args, nil
}

func (a Args) options() gpxanalysis.Options {
	return gpxanalysis.NewOptions(a.Interval, a.MinKmh, a.MaxKmh, a.Timezone)
}

// run analyzes every input and writes the reports as one JSON array. It
// returns how many files failed; the error is reserved for I/O on stdout
// or an unreadable input path.
func run(args Args, stdout, stderr io.Writer) (int, error) {
	files, err := collect(args.Paths)
	if err != nil {
		return 0, err
	}
	opts := args.options()

	var bar *progressbar.ProgressBar
	if !args.Quiet {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("[GPX] 分析中"),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	reports := make([]Report, 0, len(files))
	failed := 0
	for _, file := range files {
		rep := analyzeFile(file, opts)
		if rep.Error != "" {
			failed++
		}
		reports = append(reports, rep)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	if args.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(reports); err != nil {
		return failed, fmt.Errorf("write reports: %w", err)
	}
	return failed, nil
}

func analyzeFile(path string, opts gpxanalysis.Options) Report {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{File: path, Error: err.Error()}
	}
	res, err := gpxanalysis.Analyze(data, opts)
	if err != nil {
		return Report{File: path, Error: err.Error()}
	}
	return Report{File: path, Result: &res}
}

// collect expands directories into the .gpx files below them, sorted by
// walk order.
func collect(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".gpx") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
