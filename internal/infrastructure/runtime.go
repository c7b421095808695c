package infrastructure

import (
	"context"
	"errors"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeStats is a point-in-time view of the Go runtime
type RuntimeStats struct {
	Goroutines    int           `json:"goroutines"`
	HeapAlloc     uint64        `json:"heap_alloc_bytes"`
	SysBytes      uint64        `json:"sys_bytes"`
	GCCount       uint32        `json:"gc_count"`
	CPUCount      int           `json:"cpu_count"`
	Uptime        time.Duration `json:"-"`
	UptimeSeconds float64       `json:"uptime_seconds"`
}

// CollectRuntimeStats reads runtime statistics relative to startTime
func CollectRuntimeStats(startTime time.Time) RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	uptime := time.Since(startTime)
	return RuntimeStats{
		Goroutines:    runtime.NumGoroutine(),
		HeapAlloc:     mem.HeapAlloc,
		SysBytes:      mem.Sys,
		GCCount:       mem.NumGC,
		CPUCount:      runtime.NumCPU(),
		Uptime:        uptime,
		UptimeSeconds: uptime.Seconds(),
	}
}

// RegisterRuntimeMetrics exposes goroutine count, heap size and uptime as
// observable gauges. They are sampled on every metrics scrape.
func RegisterRuntimeMetrics(meter metric.Meter, startTime time.Time) (metric.Registration, error) {
	goroutines, err1 := meter.Int64ObservableGauge("system_goroutines",
		metric.WithDescription("Number of active goroutines"))
	heap, err2 := meter.Int64ObservableGauge("system_memory_usage_bytes",
		metric.WithDescription("Heap bytes allocated and in use"),
		metric.WithUnit("By"))
	uptime, err3 := meter.Float64ObservableGauge("system_process_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"))
	if err := errors.Join(err1, err2, err3); err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := CollectRuntimeStats(startTime)
		o.ObserveInt64(goroutines, int64(stats.Goroutines))
		o.ObserveInt64(heap, int64(stats.HeapAlloc))
		o.ObserveFloat64(uptime, stats.UptimeSeconds)
		return nil
	}, goroutines, heap, uptime)
}
