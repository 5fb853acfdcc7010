package telemetry

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("go.perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var liveObjectsGauge, _ = meter.Int64Gauge("live_objects")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

type PerfStats struct {
	AllocatedMb int64
	LiveObjects int64
	Goroutines  int64
	// CpuUsage is -1 when it could not be read.
	CpuUsage float64
}

// RecordPerfStats takes a single snapshot of process resource usage,
// the download body is held in memory so this is taken right after it is written.
func RecordPerfStats(ctx context.Context) PerfStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := PerfStats{
		AllocatedMb: int64(memStats.Alloc / 1_000_000),
		LiveObjects: int64(memStats.Mallocs) - int64(memStats.Frees),
		Goroutines:  int64(runtime.NumGoroutine()),
		CpuUsage:    -1,
	}
	memoryGauge.Record(ctx, stats.AllocatedMb)
	liveObjectsGauge.Record(ctx, stats.LiveObjects)
	goroutineGauge.Record(ctx, stats.Goroutines)

	// interval 0 compares against the last call (or boot), it does not block
	cpuUsage, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(cpuUsage) == 0 {
		slog.DebugContext(ctx, "failed to read cpu usage", "err", err)
	} else {
		stats.CpuUsage = cpuUsage[0]
		cpuGauge.Record(ctx, stats.CpuUsage)
	}

	slog.DebugContext(ctx, "perf stats", "allocated_mb", stats.AllocatedMb)
	return stats
}
