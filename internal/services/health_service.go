package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moviepulse/internal/infrastructure"
	"moviepulse/pkg/contracts"
)

// Health status values
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	buildID   string
	datasets  *DatasetService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                       `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Version   string                       `json:"version"`
	Runtime   *infrastructure.RuntimeStats `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth     `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// DatasetStats describes the loaded dataset for the detailed health view
type DatasetStats struct {
	RowsRead          int       `json:"rows_read"`
	Rows              int       `json:"rows"`
	Columns           int       `json:"columns"`
	Genres            int       `json:"genres"`
	UndefinedGenres   int       `json:"undefined_genres"`
	DuplicatesRemoved int       `json:"duplicates_removed"`
	MonetaryImputed   int       `json:"monetary_imputed"`
	ETag              string    `json:"etag"`
	BuiltAt           time.Time `json:"built_at"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, datasets *DatasetService, logger *slog.Logger) *HealthService {
	return NewHealthServiceWithBuildInfo(version, "", "", datasets, logger)
}

// NewHealthServiceWithBuildInfo creates a new health service with build information
func NewHealthServiceWithBuildInfo(version, buildTime, buildID string, datasets *DatasetService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "health_service"))

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime),
		slog.String("build_id", buildID))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		buildID:   buildID,
		datasets:  datasets,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready once the dataset is loaded
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"dataset": hs.checkDatasetHealth(),
			"chart":   hs.checkChartHealth(),
		},
	}

	if status.Services["dataset"].Status != StatusReady {
		status.Status = StatusNotReady
		hs.logger.WarnContext(ctx, "ReadinessCheck: not ready",
			slog.String("reason", status.Services["dataset"].Message))
	}

	return status
}

// LivenessCheck returns liveness status with runtime statistics
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	stats := infrastructure.CollectRuntimeStats(hs.startTime)
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime:   &stats,
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	result := map[string]interface{}{
		"version":      hs.version,
		"git_commit":   info.GitCommit,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"arch":         info.Architecture,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if hs.buildID != "" {
		result["build_id"] = hs.buildID
	}

	return result
}

// DatasetStats summarises the loaded dataset
func (hs *HealthService) DatasetStats(ctx context.Context) (DatasetStats, error) {
	if hs.datasets == nil || hs.datasets.Dataset() == nil {
		return DatasetStats{}, ErrDatasetNotLoaded
	}

	d := hs.datasets.Dataset()
	clean := d.CleanReport()
	summary := d.Summary()
	return DatasetStats{
		RowsRead:          d.LoadReport().RowsRead,
		Rows:              d.Len(),
		Columns:           len(d.Columns()),
		Genres:            len(summary.Ranked),
		UndefinedGenres:   len(summary.Undefined),
		DuplicatesRemoved: clean.DuplicatesRemoved,
		MonetaryImputed:   clean.MonetaryImputed,
		ETag:              d.ETag(),
		BuiltAt:           d.BuiltAt(),
	}, nil
}

func (hs *HealthService) checkDatasetHealth() ServiceHealth {
	if hs.datasets == nil || hs.datasets.Dataset() == nil {
		return ServiceHealth{
			Status:  StatusNotReady,
			Message: "dataset not loaded",
		}
	}

	d := hs.datasets.Dataset()
	return ServiceHealth{
		Status:  StatusReady,
		Message: fmt.Sprintf("%d rows loaded", d.Len()),
		Uptime:  time.Since(d.BuiltAt()).Round(time.Second).String(),
	}
}

// a missing chart is reported but does not block readiness
func (hs *HealthService) checkChartHealth() ServiceHealth {
	if hs.datasets == nil || hs.datasets.Dataset() == nil || !hs.datasets.Dataset().HasChart() {
		return ServiceHealth{
			Status:  StatusNotReady,
			Message: "no chart rendered",
		}
	}
	return ServiceHealth{Status: StatusReady}
}
