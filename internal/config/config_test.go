package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviepulse/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "movies.csv", cfg.Dataset.SourcePath)
	assert.Equal(t, "genre", cfg.Dataset.CategoryColumn)
	assert.Equal(t, ",", cfg.Dataset.CategoryDelimiter)
	assert.Equal(t, "avg_vote", cfg.Dataset.RatingColumn)
	assert.Equal(t, "budget", cfg.Dataset.MonetaryColumn)
	assert.Contains(t, cfg.Dataset.DropColumns, "imdb_title_id")
	assert.Equal(t, DefaultSampleSize, cfg.Dataset.SampleSize)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)

	require.NoError(t, cfg.Validate())
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		env         map[string]string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults only",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultPort, cfg.Server.Port)
				assert.Equal(t, DefaultCleanedCSV, cfg.Dataset.CleanedCSVPath)
			},
		},
		{
			name: "yaml overlays defaults",
			file: `
server:
  port: 9090
  read_timeout: 5s
dataset:
  source_path: data/imdb.csv
  drop_columns: [title, description]
  sample_size: 10
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "data/imdb.csv", cfg.Dataset.SourcePath)
				assert.Equal(t, []string{"title", "description"}, cfg.Dataset.DropColumns)
				assert.Equal(t, 10, cfg.Dataset.SampleSize)
				assert.Equal(t, "avg_vote", cfg.Dataset.RatingColumn)
			},
		},
		{
			name: "env overrides yaml",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"MOVIEPULSE_SERVER_PORT":          "7070",
				"MOVIEPULSE_LOGGING_LEVEL":        "DEBUG",
				"MOVIEPULSE_DATASET_DROP_COLUMNS": "title,actors",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, []string{"title", "actors"}, cfg.Dataset.DropColumns)
			},
		},
		{
			name:    "invalid sample size",
			env:     map[string]string{"MOVIEPULSE_DATASET_SAMPLE_SIZE": "0"},
			wantErr: true,
		},
		{
			name:    "invalid trace exporter",
			file:    "telemetry:\n  trace_exporter: jaeger\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "server: [unterminated",
			wantErr: true,
		},
		{
			name:    "unparseable env value",
			env:     map[string]string{"MOVIEPULSE_SERVER_PORT": "not-a-port"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
				return
			}

			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrTypeConfig, appErr.Type)
	assert.Contains(t, appErr.Context, "file")
}

func TestValidate_FieldsContext(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	cfg.Dataset.RatingColumn = ""

	err := cfg.Validate()
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	fields, ok := appErr.Context["fields"].([]string)
	require.True(t, ok)
	assert.Len(t, fields, 2)
	assert.Contains(t, fields[0]+fields[1], "Port")
	assert.Contains(t, fields[0]+fields[1], "RatingColumn")
}

func TestValidate_FileOutputNeedsPath(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = ""

	assert.Error(t, cfg.Validate())

	cfg.Logging.FilePath = "logs/app.log"
	assert.NoError(t, cfg.Validate())
}

func TestGetConfigFilePath(t *testing.T) {
	t.Run("env var wins", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, "/etc/moviepulse.yaml")
		assert.Equal(t, "/etc/moviepulse.yaml", getConfigFilePath())
	})

	t.Run("configs directory", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, "")
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), []byte("{}"), 0644))
		chdir(t, dir)

		assert.Equal(t, "configs/config.yaml", getConfigFilePath())
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, "")
		chdir(t, t.TempDir())

		assert.Equal(t, "", getConfigFilePath())
	})
}

func TestAddr(t *testing.T) {
	cfg := Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8181

	assert.Equal(t, "127.0.0.1:8181", cfg.Addr())
}
