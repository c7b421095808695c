package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"moviepulse/internal/app"
	"moviepulse/internal/config"
	"moviepulse/internal/exporter"
	"moviepulse/internal/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run loads the dataset once, writes the artifacts and prints the summary.
// Logs go to stderr so stdout carries only the report.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cleaner", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "config file (defaults to the usual search path)")
	source := fs.String("in", "", "source CSV, overrides dataset.source_path")
	baseDir := fs.String("dir", "", "base dir for relative paths, overrides dataset.base_dir")
	bom := fs.Bool("bom", false, "prefix the cleaned CSV with a UTF-8 BOM")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var (
		cfg *config.Config
		err error
	)
	if *configFile != "" {
		cfg, err = config.LoadFrom(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	if *source != "" {
		cfg.Dataset.SourcePath = *source
	}
	if *baseDir != "" {
		cfg.Dataset.BaseDir = *baseDir
	}
	if *bom {
		cfg.Dataset.WriteBOM = true
	}

	logger, logFile, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	if logFile != nil {
		defer logFile.Close()
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		logger.Error("Failed to resolve paths", slog.String("error", err.Error()))
		return 1
	}
	paths.LogPathResolution(logger)

	art, err := app.NewBuilder(cfg, paths, logger, nil).Build(ctx)
	if err != nil {
		return 1
	}

	if err := exporter.WriteCleanReportText(stdout, art.Result.Clean); err != nil {
		logger.Error("Failed to print clean report", slog.String("error", err.Error()))
		return 1
	}
	fmt.Fprintln(stdout)
	if err := exporter.WriteSummaryText(stdout, art.Result.Summary); err != nil {
		logger.Error("Failed to print summary", slog.String("error", err.Error()))
		return 1
	}

	fmt.Fprintf(stdout, "\ncleaned csv: %s\n", paths.CleanedCSV)
	if len(art.Chart) > 0 {
		fmt.Fprintf(stdout, "chart: %s\n", paths.ChartFile)
	}
	if len(art.Workbook) > 0 && paths.SummaryXLSX != "" {
		fmt.Fprintf(stdout, "workbook: %s\n", paths.SummaryXLSX)
	}
	return 0
}
