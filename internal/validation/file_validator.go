package validation

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"moviepulse/internal/dataprocessing"
	"moviepulse/internal/errors"
)

// FileValidator checks the dataset input and artifact locations before the
// pipeline runs, so failures surface with a clear message at startup
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError("failed to create output directory", err).WithContext("directory", dir)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError("output directory is not writable", err).WithContext("directory", dir)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return errors.NewNotFoundError(fmt.Sprintf("file %s", path))
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError("failed to stat file", err).WithContext("file", path)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return errors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError("file is not readable", err).WithContext("file", path)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateCSVFile checks that path is a readable, non-empty .csv file
func (v *FileValidator) ValidateCSVFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" {
		v.logger.Error("File is not a CSV file",
			slog.String("file", path),
			slog.String("extension", ext))
		return errors.NewAppValidationError(fmt.Sprintf("file %s is not a CSV file (extension: %s)", path, ext))
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.NewStorageError("failed to stat file", err).WithContext("file", path)
	}
	if info.Size() == 0 {
		v.logger.Error("CSV file is empty",
			slog.String("file", path))
		return errors.NewAppValidationError(fmt.Sprintf("file %s is empty", path))
	}

	return nil
}

// MissingColumns reads the CSV header and returns the expected columns that
// are absent, compared after name normalisation. A missing column is not an
// error here: the pipeline decides which gaps are fatal.
func (v *FileValidator) MissingColumns(path string, expected []string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open file", err).WithContext("file", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParsingError("dataset has no header row", nil).WithContext("file", path)
	}
	if err != nil {
		return nil, errors.NewParsingError("failed to read header", err).WithContext("file", path)
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[dataprocessing.NormalizeColumnName(h)] = true
	}

	var missing []string
	for _, col := range expected {
		if col == "" {
			continue
		}
		if !present[dataprocessing.NormalizeColumnName(col)] {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		v.logger.Warn("Expected columns missing from dataset",
			slog.String("file", path),
			slog.Any("missing", missing))
	}
	return missing, nil
}
