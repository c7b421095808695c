package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file path the application reads or writes.
// All entries are absolute.
type Paths struct {
	BaseDir     string
	SourceFile  string
	CleanedCSV  string
	StaticDir   string
	ChartFile   string
	SummaryXLSX string
	LogFile     string
}

// ResolvePaths resolves the configured dataset paths against the base dir.
// An empty base dir means the current working directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Dataset.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base dir: %w", err)
	}

	p := &Paths{BaseDir: base}
	p.SourceFile = p.Resolve(c.Dataset.SourcePath)
	p.CleanedCSV = p.Resolve(c.Dataset.CleanedCSVPath)
	p.StaticDir = p.Resolve(c.Dataset.StaticDir)
	p.ChartFile = p.GetStaticFilePath(c.Dataset.ChartFile)
	if c.Dataset.SummaryXLSXPath != "" {
		p.SummaryXLSX = p.Resolve(c.Dataset.SummaryXLSXPath)
	}
	if c.Logging.Output != "console" && c.Logging.FilePath != "" {
		p.LogFile = p.Resolve(c.Logging.FilePath)
	}
	return p, nil
}

// Resolve returns path unchanged when absolute, otherwise joined to BaseDir
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.BaseDir, path)
}

// GetStaticFilePath returns a file path under the static directory
func (p *Paths) GetStaticFilePath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.StaticDir, filename)
}

// EnsureDirectories creates the parent directory of every output artifact
func (p *Paths) EnsureDirectories() error {
	directories := []string{p.StaticDir}
	for _, f := range []string{p.CleanedCSV, p.ChartFile, p.SummaryXLSX, p.LogFile} {
		if f != "" {
			directories = append(directories, filepath.Dir(f))
		}
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Path resolution",
		slog.String("base_dir", p.BaseDir),
		slog.String("source_file", p.SourceFile),
		slog.String("cleaned_csv", p.CleanedCSV),
		slog.String("static_dir", p.StaticDir),
		slog.String("chart_file", p.ChartFile),
		slog.String("summary_xlsx", p.SummaryXLSX),
		slog.String("log_file", p.LogFile),
		slog.Bool("source_exists", FileExists(p.SourceFile)))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
