package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/huangang/compliancewatch/internal/report"
	"github.com/huangang/compliancewatch/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DeliveryService fires scheduled reports on their cron spec and emails
// them to the schedule's recipients.
type DeliveryService struct {
	reports *ReportService
	mailer  Mailer
	queue   TaskQueue
	events  *SSEHub
	brand   string

	cronScheduler *cron.Cron
	mu            sync.Mutex
	entries       map[string]cron.EntryID
}

func NewDeliveryService(reports *ReportService, mailer Mailer, queue TaskQueue, events *SSEHub, brand string, loc *time.Location) *DeliveryService {
	if loc == nil {
		loc = time.Local
	}
	return &DeliveryService{
		reports:       reports,
		mailer:        mailer,
		queue:         queue,
		events:        events,
		brand:         brand,
		cronScheduler: cron.New(cron.WithLocation(loc)),
		entries:       make(map[string]cron.EntryID),
	}
}

func (s *DeliveryService) StartScheduler() {
	s.cronScheduler.Start()
	logger.Infof("[Delivery] Scheduler started")
}

func (s *DeliveryService) StopScheduler() {
	<-s.cronScheduler.Stop().Done()
	logger.Infof("[Delivery] Scheduler stopped")
}

// Register adds a cron entry for sched, replacing any existing one.
func (s *DeliveryService) Register(sched report.Schedule) error {
	if sched.CronSpec == "" {
		return fmt.Errorf("schedule %s has no valid time", sched.ID)
	}

	task := &DeliveryTask{
		ScheduleID:   sched.ID,
		ScheduleName: sched.Name,
		ReportType:   sched.ReportType,
		Format:       string(sched.Format),
		Recipients:   sched.RecipientList(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[sched.ID]; ok {
		s.cronScheduler.Remove(id)
	}
	entryID, err := s.cronScheduler.AddFunc(sched.CronSpec, func() {
		if err := s.queue.Enqueue(task); err != nil {
			logger.Errorf("[Delivery] Failed to enqueue %s: %v", task.ScheduleID, err)
		}
	})
	if err != nil {
		return fmt.Errorf("add cron entry: %w", err)
	}
	s.entries[sched.ID] = entryID

	logger.Infof("[Delivery] Scheduled %q (cron: %s)", sched.Name, sched.CronSpec)
	return nil
}

func (s *DeliveryService) Unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.entries[id]; ok {
		s.cronScheduler.Remove(entryID)
		delete(s.entries, id)
	}
}

// Registered returns the number of schedules with a live cron entry.
func (s *DeliveryService) Registered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Process renders the report of task and mails it. Scheduled exports do
// not take the interactive generation guard.
func (s *DeliveryService) Process(ctx context.Context, task *DeliveryTask) error {
	format, err := report.ParseFormat(task.Format)
	if err != nil {
		return err
	}

	var artifact *report.Artifact
	capture := report.EmitterFunc(func(_ context.Context, a *report.Artifact) error {
		artifact = a
		return nil
	})

	result, err := s.reports.Export(ctx, task.ReportType, format, TriggerSchedule, capture)
	if err != nil {
		s.fail(task, err)
		return err
	}

	subject := fmt.Sprintf("[%s] %s", s.brand, result.Entry.ReportName)
	body := DeliveryBody(task.ScheduleName, result.Entry.ReportName, artifact.Filename, s.brand)
	if err := s.mailer.Send(ctx, task.Recipients, subject, body, artifact); err != nil {
		s.fail(task, err)
		return fmt.Errorf("deliver %s: %w", task.ScheduleID, err)
	}

	s.events.Publish(ReportEvent{
		Type:       EventDeliverySent,
		ScheduleID: task.ScheduleID,
		ReportType: task.ReportType,
		Format:     task.Format,
		Filename:   artifact.Filename,
	})
	return nil
}

func (s *DeliveryService) fail(task *DeliveryTask, err error) {
	logger.Errorf("[Delivery] Schedule %s (%s) failed: %v", task.ScheduleName, task.ScheduleID, err)
	s.events.Publish(ReportEvent{
		Type:       EventDeliveryFailed,
		ScheduleID: task.ScheduleID,
		ReportType: task.ReportType,
		Format:     task.Format,
		Error:      err.Error(),
	})
}
