// Command library-search queries a CapitaDiscovery library catalogue for
// title/author matches and reports per-branch availability.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bstancham/capita-library-search/config"
	"github.com/bstancham/capita-library-search/models"
	"github.com/bstancham/capita-library-search/output"
	"github.com/bstancham/capita-library-search/search"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type options struct {
	title       string
	author      string
	borough     string
	filename    string
	outputFile  string
	format      string
	metricsAddr string
	verbose     bool
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "library-search",
		Short: "Search a CapitaDiscovery library catalogue",
		Long: `Search a CapitaDiscovery based library catalogue by title and/or
author and report which branches hold available copies. A batch file of
-b/-a/-t directives can run several searches in one go.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.title, "title", "t", "", "Title to search for")
	flags.StringVarP(&opts.author, "author", "a", "", "Author to search for")
	flags.StringVarP(&opts.borough, "borough", "b", "", "Catalogue borough namespace")
	flags.StringVarP(&opts.filename, "filename", "f", "", "Batch command file (overrides the other search flags)")
	flags.StringVarP(&opts.outputFile, "output", "o", "", "Output file path")
	flags.StringVar(&opts.format, "format", "console", "Output format: console, json, csv, or dual")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opts *options) error {
	logger, level := newLogger(opts.verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := config.DefaultConfig()
	cfg.OutputFile = opts.outputFile
	cfg.OutputFormat = strings.ToLower(opts.format)
	cfg.MetricsAddr = opts.metricsAddr
	cfg.Verbose = opts.verbose
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	searcher, err := search.NewSearcher(cfg)
	if err != nil {
		return fmt.Errorf("initialising searcher: %w", err)
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(searcher.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	writer, err := createWriter(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
		}
	}()

	var sets []*models.SearchResultSet
	if opts.filename != "" {
		f, err := os.Open(opts.filename)
		if err != nil {
			return fmt.Errorf("open batch file: %w", err)
		}
		defer f.Close()

		sets, err = searcher.RunBatch(f)
		if err != nil {
			return fmt.Errorf("batch search: %w", err)
		}
	} else {
		slog.Info("searching",
			slog.String("title", opts.title),
			slog.String("author", opts.author),
			slog.String("borough", opts.borough),
		)
		sets = []*models.SearchResultSet{
			searcher.Search(opts.title, opts.author, opts.borough),
		}
	}

	if err := writer.Write(sets); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if err := writer.Validate(); err != nil {
		return fmt.Errorf("output validation: %w", err)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	return nil
}

func createWriter(format, filename string) (output.Writer, error) {
	switch format {
	case "console":
		return output.NewConsoleWriter(os.Stdout), nil
	case "json":
		return output.NewJSONWriter(filename)
	case "csv":
		return output.NewCSVWriter(filename)
	case "dual":
		jsonFilename := strings.TrimSuffix(filename, ".csv") + ".json"
		return output.NewDualWriter(filename, jsonFilename)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
