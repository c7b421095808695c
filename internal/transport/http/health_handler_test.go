package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviepulse/internal/dataprocessing"
	apierrors "moviepulse/internal/errors"
	"moviepulse/internal/services"
	"moviepulse/internal/shared/testutil"
)

func loadedDatasetService(t *testing.T) *services.DatasetService {
	t.Helper()
	raw, report, err := dataprocessing.ReadTable(strings.NewReader("genre,avg_vote,budget\n\"A,B\",7,$ 10\nA,5,$ 20\n"), "movies.csv")
	require.NoError(t, err)
	result, err := dataprocessing.Run(context.Background(), raw, report, dataprocessing.DefaultOptions())
	require.NoError(t, err)

	ds, err := services.NewDataset(services.DatasetInput{Result: result, CSV: []byte("csv"), SampleSize: 5})
	require.NoError(t, err)
	return services.NewDatasetService(ds, nil)
}

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	eh := apierrors.NewErrorHandler(logger, false)

	ready := NewHealthHandler(services.NewHealthService("v1.0.0-test", loadedDatasetService(t), logger), logger, eh)
	empty := NewHealthHandler(services.NewHealthService("v1.0.0-test", services.NewDatasetService(nil, logger), logger), logger, eh)

	tests := []struct {
		name           string
		handlerFunc    http.HandlerFunc
		expectedStatus int
		checkResponse  func(t *testing.T, body map[string]interface{})
	}{
		{
			name:           "health check endpoint",
			handlerFunc:    ready.HealthCheck,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "ok", body["status"])
				assert.Equal(t, "v1.0.0-test", body["version"])
			},
		},
		{
			name:           "readiness with dataset",
			handlerFunc:    ready.ReadinessCheck,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "ready", body["status"])
				assert.Contains(t, body, "services")
			},
		},
		{
			name:           "readiness without dataset",
			handlerFunc:    empty.ReadinessCheck,
			expectedStatus: http.StatusServiceUnavailable,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "not_ready", body["status"])
			},
		},
		{
			name:           "liveness endpoint",
			handlerFunc:    ready.LivenessCheck,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "alive", body["status"])
				runtime, ok := body["runtime"].(map[string]interface{})
				require.True(t, ok)
				assert.Contains(t, runtime, "goroutines")
			},
		},
		{
			name:           "version endpoint",
			handlerFunc:    ready.Version,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "v1.0.0-test", body["version"])
				assert.Contains(t, body, "go_version")
			},
		},
		{
			name:           "dataset stats",
			handlerFunc:    ready.DatasetStats,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, float64(2), body["rows"])
				assert.Equal(t, float64(2), body["genres"])
			},
		},
		{
			name:           "dataset stats without dataset",
			handlerFunc:    empty.DatasetStats,
			expectedStatus: http.StatusServiceUnavailable,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "DATASET_NOT_READY", body["error_code"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handlerFunc(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			tt.checkResponse(t, body)
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	eh := apierrors.NewErrorHandler(logger, false)

	t.Run("disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewMetricsHandler(nil, eh).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delegates", func(t *testing.T) {
		exposition := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# HELP up\n"))
		})
		rec := httptest.NewRecorder()
		NewMetricsHandler(exposition, eh).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "# HELP up\n", rec.Body.String())
	})
}
