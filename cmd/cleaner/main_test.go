package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const moviesCSV = `title,genre,avg_vote,budget
Alpha,"Drama, Comedy",7.0,$ 1000
Beta,Drama,5.0,$ 3000
Beta,Drama,5.0,$ 3000
Gamma,Comedy,8.0,
`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "movies.csv"), []byte(moviesCSV), 0644))

	tests := []struct {
		name     string
		args     []string
		wantCode int
		check    func(t *testing.T, stdout, stderr string)
	}{
		{
			name:     "cleans and prints the summary",
			args:     []string{"-dir", dir, "-in", "movies.csv"},
			wantCode: 0,
			check: func(t *testing.T, stdout, _ string) {
				assert.Contains(t, stdout, "rows: 4 -> 3 (duplicates removed: 1)")
				assert.Contains(t, stdout, "GENRE")
				assert.Contains(t, stdout, "Comedy")
				assert.Contains(t, stdout, "Drama")
				assert.Contains(t, stdout, filepath.Join(dir, "cleaned_data.csv"))
				assert.FileExists(t, filepath.Join(dir, "cleaned_data.csv"))
				assert.FileExists(t, filepath.Join(dir, "static", "genre_ratings.png"))
				assert.FileExists(t, filepath.Join(dir, "genre_summary.xlsx"))
			},
		},
		{
			name:     "missing source",
			args:     []string{"-dir", dir, "-in", "nope.csv"},
			wantCode: 1,
			check: func(t *testing.T, stdout, stderr string) {
				assert.Empty(t, stdout)
				assert.Contains(t, stderr, "Dataset build failed")
			},
		},
		{
			name:     "unknown flag",
			args:     []string{"-frobnicate"},
			wantCode: 2,
			check: func(t *testing.T, _, stderr string) {
				assert.Contains(t, stderr, "frobnicate")
			},
		},
		{
			name:     "missing config file",
			args:     []string{"-config", filepath.Join(dir, "absent.yaml")},
			wantCode: 1,
			check: func(t *testing.T, _, stderr string) {
				assert.Contains(t, stderr, "failed to load configuration")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr)
			assert.Equal(t, tt.wantCode, code, "stderr: %s", stderr.String())
			tt.check(t, stdout.String(), stderr.String())
		})
	}
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "films.csv"), []byte(moviesCSV), 0644))

	cfgPath := filepath.Join(dir, "config.yaml")
	cfgYAML := "dataset:\n" +
		"  base_dir: " + dir + "\n" +
		"  source_path: films.csv\n" +
		"  cleaned_csv_path: out/clean.csv\n" +
		"  summary_xlsx_path: \"\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", cfgPath, "-bom"}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	written, err := os.ReadFile(filepath.Join(dir, "out", "clean.csv"))
	require.NoError(t, err)
	assert.Equal(t, []byte("\xef\xbb\xbf"), written[:3])
	assert.NotContains(t, stdout.String(), "workbook:")
}
