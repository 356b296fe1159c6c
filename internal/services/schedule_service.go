package services

import (
	"context"
	"fmt"
	"time"

	"github.com/huangang/compliancewatch/internal/report"
	"github.com/huangang/compliancewatch/pkg/logger"
)

// Dispatcher turns schedules into recurring deliveries.
type Dispatcher interface {
	Register(s report.Schedule) error
	Unregister(id string)
}

type ScheduleService struct {
	book       *report.ScheduleBook
	dispatcher Dispatcher
	events     *SSEHub
	audit      *AuditLogger
}

func NewScheduleService(loc *time.Location, events *SSEHub, audit *AuditLogger) *ScheduleService {
	return &ScheduleService{
		book:   report.NewScheduleBook(loc),
		events: events,
		audit:  audit,
	}
}

// SetDispatcher enables delivery of schedules created from now on.
func (s *ScheduleService) SetDispatcher(d Dispatcher) {
	s.dispatcher = d
}

func (s *ScheduleService) Create(ctx context.Context, actor string, in report.ScheduleInput) (report.Schedule, error) {
	sched, err := s.book.Create(in)
	if err != nil {
		return report.Schedule{}, err
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.Register(sched); err != nil {
			logger.Warnf("[Schedule] %s (%s) saved but not dispatched: %v", sched.Name, sched.ID, err)
		}
	}

	logger.Infof("[Schedule] Created %q: %s %s at %s as %s", sched.Name, sched.ReportType, sched.Frequency, sched.Time, sched.Format)
	s.events.Publish(ReportEvent{Type: EventScheduleCreated, ScheduleID: sched.ID, ReportType: sched.ReportType, Format: string(sched.Format)})
	s.audit.Record(ctx, actor, "Schedule Created",
		fmt.Sprintf("%s: %s %s at %s to %s", sched.Name, sched.ReportTypeName, sched.Frequency, sched.Time, sched.Recipients))
	return sched, nil
}

// Delete removes a schedule. Unknown ids return false and change nothing.
func (s *ScheduleService) Delete(ctx context.Context, actor, id string) bool {
	sched, ok := s.book.Delete(id)
	if !ok {
		return false
	}

	if s.dispatcher != nil {
		s.dispatcher.Unregister(id)
	}

	logger.Infof("[Schedule] Deleted %q (%s)", sched.Name, sched.ID)
	s.events.Publish(ReportEvent{Type: EventScheduleDeleted, ScheduleID: id, ReportType: sched.ReportType})
	s.audit.Record(ctx, actor, "Schedule Deleted", sched.Name)
	return true
}

func (s *ScheduleService) List() []report.Schedule {
	return s.book.List()
}

func (s *ScheduleService) Get(id string) (report.Schedule, bool) {
	return s.book.Get(id)
}

func (s *ScheduleService) Count() int {
	return s.book.Len()
}
