package main

import (
	"context"
	"time"

	"github.com/huangang/compliancewatch/internal/config"
	"github.com/huangang/compliancewatch/internal/dataset"
	"github.com/huangang/compliancewatch/internal/middleware"
	"github.com/huangang/compliancewatch/internal/models"
	"github.com/huangang/compliancewatch/internal/report"
	"github.com/huangang/compliancewatch/internal/services"
	"github.com/huangang/compliancewatch/pkg/logger"
	"gorm.io/gorm"
)

// appServices holds all initialized services needed by the application.
type appServices struct {
	cfg             *config.Config
	db              *gorm.DB
	hub             *services.SSEHub
	reportService   *services.ReportService
	scheduleService *services.ScheduleService
	dashboard       *services.DashboardService
	delivery        *services.DeliveryService
	taskQueue       services.TaskQueue
	worker          *services.Worker
	generateLimiter *middleware.RateLimiter
}

// bootstrap initializes all application dependencies: database, export
// pipeline, schedules and the optional delivery dispatch.
func bootstrap(cfg *config.Config) *appServices {
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	db := models.GetDB()

	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed the demonstration dataset into an empty database
	if err := dataset.Seed(context.Background(), db, dataset.NewMock(time.Now())); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed compliance dataset")
	}

	loc := cfg.Report.Location()
	store := dataset.NewStore(db)
	hub := services.NewSSEHub()
	audit := services.NewAuditLogger(store)

	logo := report.NewLogoLoader(cfg.Branding.Logo, cfg.Branding.LogoTimeout(), cfg.Branding.LogoCacheTTL())
	theme := report.ThemeFromHex(cfg.Branding.ShortName, cfg.Branding.Colors.Primary, cfg.Branding.Colors.Secondary)
	encoder := report.NewEncoder(report.NewPDFRenderer(theme, logo, loc))

	reportService := services.NewReportService(report.NewProjector(store, loc), encoder, hub, audit)
	if cfg.Report.Archive {
		reportService.SetArchive(report.DirEmitter{Dir: cfg.Report.OutputDir})
		logger.Info().Str("dir", cfg.Report.OutputDir).Msg("Archiving exports")
	}

	svc := &appServices{
		cfg:             cfg,
		db:              db,
		hub:             hub,
		reportService:   reportService,
		scheduleService: services.NewScheduleService(loc, hub, audit),
		dashboard:       services.NewDashboardService(store, audit),
		generateLimiter: middleware.NewRateLimiter(cfg.Report.GenerateRPS, cfg.Report.GenerateBurst),
	}

	if cfg.Dispatch.Enabled {
		svc.startDispatch(loc)
	}
	return svc
}

// startDispatch wires schedules to cron entries that enqueue deliveries.
// Deliveries run on asynq when Redis is enabled, in-process otherwise.
func (s *appServices) startDispatch(loc *time.Location) {
	if !s.cfg.SMTP.Configured() {
		logger.Warn().Msg("Dispatch enabled without SMTP settings, deliveries will fail")
	}

	s.taskQueue = services.NewTaskQueue(s.cfg)
	s.delivery = services.NewDeliveryService(s.reportService, services.NewEmailService(s.cfg.SMTP),
		s.taskQueue, s.hub, s.cfg.Branding.ShortName, loc)

	if syncQueue, ok := s.taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(s.delivery.Process)
	}
	if s.taskQueue.IsAsync() {
		s.worker = services.NewWorker(&s.cfg.Redis)
		if s.worker != nil {
			s.worker.SetProcessor(s.delivery.Process)
			if err := s.worker.Start(); err != nil {
				logger.Error().Err(err).Msg("Failed to start delivery worker")
			}
		}
	}

	s.scheduleService.SetDispatcher(s.delivery)
	s.delivery.StartScheduler()
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.generateLimiter.Stop()
	if s.delivery != nil {
		s.delivery.StopScheduler()
	}
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		if err := s.taskQueue.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close task queue")
		}
	}
	if err := models.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close database")
	}
	logger.Info().Msg("All services stopped")
}
