package handlers

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangang/compliancewatch/internal/services"
	"gorm.io/gorm"
)

var startTime = time.Now()

type MetricsHandler struct {
	db        *gorm.DB
	queue     services.TaskQueue
	hub       *services.SSEHub
	reports   *services.ReportService
	schedules *services.ScheduleService
}

func NewMetricsHandler(db *gorm.DB, queue services.TaskQueue, hub *services.SSEHub, reports *services.ReportService, schedules *services.ScheduleService) *MetricsHandler {
	return &MetricsHandler{db: db, queue: queue, hub: hub, reports: reports, schedules: schedules}
}

// Metrics returns Prometheus-compatible text format metrics.
func (h *MetricsHandler) Metrics(c *gin.Context) {
	var b strings.Builder

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeGauge(&b, "compliancewatch_uptime_seconds", "Time since server start in seconds", time.Since(startTime).Seconds())
	writeGauge(&b, "compliancewatch_goroutines", "Number of active goroutines", float64(runtime.NumGoroutine()))
	writeGauge(&b, "compliancewatch_memory_alloc_bytes", "Current heap allocation in bytes", float64(m.Alloc))
	writeGauge(&b, "compliancewatch_gc_runs_total", "Total number of GC runs", float64(m.NumGC))

	if h.db != nil {
		if sqlDB, err := h.db.DB(); err == nil {
			stats := sqlDB.Stats()
			writeGauge(&b, "compliancewatch_db_open_connections", "Number of open DB connections", float64(stats.OpenConnections))
			writeGauge(&b, "compliancewatch_db_in_use_connections", "Number of in-use DB connections", float64(stats.InUse))
		}
	}

	writeGauge(&b, "compliancewatch_sse_active_clients", "Number of active SSE connections", float64(h.hub.ClientCount()))

	queueAsync := 0.0
	if h.queue != nil && h.queue.IsAsync() {
		queueAsync = 1.0
	}
	writeGauge(&b, "compliancewatch_queue_async_enabled", "Whether async queue (Redis) is enabled (1=yes, 0=no)", queueAsync)

	stats := h.reports.Stats()
	generating := 0.0
	if stats.Generating {
		generating = 1.0
	}
	writeGauge(&b, "compliancewatch_reports_generated_total", "Reports exported since start", float64(stats.Generated))
	writeGauge(&b, "compliancewatch_reports_failed_total", "Report exports that failed since start", float64(stats.Failed))
	writeGauge(&b, "compliancewatch_report_history_size", "Entries in the report history", float64(stats.HistorySize))
	writeGauge(&b, "compliancewatch_report_generating", "Whether an interactive export is running (1=yes, 0=no)", generating)
	writeGauge(&b, "compliancewatch_schedules_total", "Number of configured schedules", float64(h.schedules.Count()))

	c.Data(200, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
}

func writeGauge(b *strings.Builder, name, help string, value float64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s gauge\n", name)
	fmt.Fprintf(b, "%s %g\n\n", name, value)
}
