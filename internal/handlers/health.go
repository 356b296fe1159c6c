package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/compliancewatch/internal/services"
	"gorm.io/gorm"
)

// HealthHandler reports the state of the subsystems the exporter depends on.
type HealthHandler struct {
	db        *gorm.DB
	queue     services.TaskQueue
	hub       *services.SSEHub
	reports   *services.ReportService
	schedules *services.ScheduleService
}

func NewHealthHandler(db *gorm.DB, queue services.TaskQueue, hub *services.SSEHub, reports *services.ReportService, schedules *services.ScheduleService) *HealthHandler {
	return &HealthHandler{db: db, queue: queue, hub: hub, reports: reports, schedules: schedules}
}

func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"
	status := 200

	dbStatus := "ok"
	if h.db == nil {
		dbStatus = "disabled"
	} else if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}
	if overall != "healthy" {
		status = 503
	}

	queueMode := "disabled"
	if h.queue != nil {
		queueMode = "sync"
		if h.queue.IsAsync() {
			queueMode = "async (Redis)"
		}
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"service": "compliancewatch",
		"components": gin.H{
			"database":    dbStatus,
			"queue_mode":  queueMode,
			"sse_clients": h.hub.ClientCount(),
			"generating":  h.reports.IsGenerating(),
			"schedules":   h.schedules.Count(),
		},
	})
}
