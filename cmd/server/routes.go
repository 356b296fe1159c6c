package main

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/compliancewatch/internal/handlers"
	"github.com/huangang/compliancewatch/internal/middleware"
	"github.com/huangang/compliancewatch/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(svc.cfg.Server.CORSOrigins))

	healthHandler := handlers.NewHealthHandler(svc.db, svc.taskQueue, svc.hub, svc.reportService, svc.scheduleService)
	metricsHandler := handlers.NewMetricsHandler(svc.db, svc.taskQueue, svc.hub, svc.reportService, svc.scheduleService)
	r.GET("/health", healthHandler.CheckHealth)
	r.GET("/metrics", metricsHandler.Metrics)

	api := r.Group("/api")
	api.Use(middleware.RequestAudit())
	{
		sseHandler := handlers.NewSSEHandler(svc.hub)
		api.GET("/events/reports", sseHandler.StreamReportEvents)

		// Reports
		reportHandler := handlers.NewReportHandler(svc.reportService)
		api.GET("/reports/types", reportHandler.Types)
		api.GET("/reports/status", reportHandler.Status)
		api.GET("/reports/history", reportHandler.History)
		api.GET("/reports/preview", reportHandler.Preview)
		api.POST("/reports/generate", svc.generateLimiter.Middleware(), reportHandler.Generate)

		// Schedules
		scheduleHandler := handlers.NewScheduleHandler(svc.scheduleService)
		api.GET("/schedules", scheduleHandler.List)
		api.GET("/schedules/:id", scheduleHandler.Get)
		api.POST("/schedules", scheduleHandler.Create)
		api.DELETE("/schedules/:id", scheduleHandler.Delete)

		// Dashboard
		dashboardHandler := handlers.NewDashboardHandler(svc.dashboard)
		api.GET("/dashboard/overview", dashboardHandler.Overview)
		api.GET("/dashboard/alerts", dashboardHandler.Alerts)
		api.GET("/dashboard/risks", dashboardHandler.Risks)
		api.GET("/dashboard/regulatory-updates", dashboardHandler.RegulatoryUpdates)
		api.GET("/dashboard/compliance-trend", dashboardHandler.ComplianceTrend)
		api.GET("/dashboard/policies", dashboardHandler.Policies)
		api.POST("/dashboard/policies", dashboardHandler.CreatePolicy)
	}
}
