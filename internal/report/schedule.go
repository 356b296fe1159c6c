package report

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "Daily"
	FrequencyWeekly  Frequency = "Weekly"
	FrequencyMonthly Frequency = "Monthly"
)

const (
	defaultScheduleType      = TypeComplianceSummary
	defaultScheduleFrequency = FrequencyWeekly
	defaultScheduleTime      = "09:00"
	defaultScheduleFormat    = FormatPDF
)

// ScheduleInput is the user supplied part of a schedule. Only Name and
// Recipients are required.
type ScheduleInput struct {
	Name       string    `json:"name"`
	ReportType string    `json:"report_type"`
	Frequency  Frequency `json:"frequency"`
	Time       string    `json:"time"`
	Format     Format    `json:"format"`
	Recipients string    `json:"recipients"`
}

// Schedule is a recurring delivery definition.
type Schedule struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	ReportType     string     `json:"report_type"`
	ReportTypeName string     `json:"report_type_name"`
	Frequency      Frequency  `json:"frequency"`
	Time           string     `json:"time"`
	Format         Format     `json:"format"`
	Recipients     string     `json:"recipients"`
	CronSpec       string     `json:"cron_spec,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	NextRun        *time.Time `json:"next_run,omitempty"`
}

// RecipientList splits the comma separated recipients, dropping blanks.
func (s Schedule) RecipientList() []string {
	return splitRecipients(s.Recipients)
}

func splitRecipients(list string) []string {
	var out []string
	for _, r := range strings.Split(list, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// CronSpec converts a frequency and "HH:MM" time into a standard 5-field
// cron expression. Weekly runs on Monday, monthly on the 1st.
func CronSpec(freq Frequency, hhmm string) (string, error) {
	hour, minute, err := parseClock(hhmm)
	if err != nil {
		return "", err
	}
	switch freq {
	case FrequencyDaily:
		return fmt.Sprintf("%d %d * * *", minute, hour), nil
	case FrequencyWeekly:
		return fmt.Sprintf("%d %d * * 1", minute, hour), nil
	case FrequencyMonthly:
		return fmt.Sprintf("%d %d 1 * *", minute, hour), nil
	default:
		return "", fmt.Errorf("unknown frequency %q", freq)
	}
}

func parseClock(hhmm string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return hour, minute, nil
}

// ScheduleBook holds schedules in memory, newest first.
type ScheduleBook struct {
	mu    sync.RWMutex
	items []Schedule
	loc   *time.Location
	now   func() time.Time
}

func NewScheduleBook(loc *time.Location) *ScheduleBook {
	if loc == nil {
		loc = time.Local
	}
	return &ScheduleBook{loc: loc, now: time.Now}
}

// SetClock replaces the time source used for CreatedAt and NextRun.
func (b *ScheduleBook) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

// Create validates in, fills defaults and prepends the new schedule.
// On a ValidationError the book is left unchanged.
func (b *ScheduleBook) Create(in ScheduleInput) (Schedule, error) {
	name := strings.TrimSpace(in.Name)
	recipients := strings.TrimSpace(in.Recipients)
	if name == "" {
		return Schedule{}, &ValidationError{Field: "name", Message: "schedule name is required"}
	}
	if len(splitRecipients(recipients)) == 0 {
		return Schedule{}, &ValidationError{Field: "recipients", Message: "at least one recipient is required"}
	}

	s := Schedule{
		ID:         uuid.NewString(),
		Name:       name,
		ReportType: in.ReportType,
		Frequency:  in.Frequency,
		Time:       strings.TrimSpace(in.Time),
		Recipients: recipients,
	}
	if f, err := ParseFormat(string(in.Format)); err == nil {
		s.Format = f
	}
	if s.ReportType == "" {
		s.ReportType = defaultScheduleType
	}
	if s.Frequency == "" {
		s.Frequency = defaultScheduleFrequency
	}
	if s.Time == "" {
		s.Time = defaultScheduleTime
	}
	if s.Format == "" {
		s.Format = defaultScheduleFormat
	}
	s.ReportTypeName = Label(s.ReportType)

	b.mu.Lock()
	defer b.mu.Unlock()

	s.CreatedAt = b.now()
	if spec, err := CronSpec(s.Frequency, s.Time); err == nil {
		s.CronSpec = spec
		if sched, err := cron.ParseStandard(spec); err == nil {
			next := sched.Next(s.CreatedAt.In(b.loc))
			s.NextRun = &next
		}
	}

	b.items = append([]Schedule{s}, b.items...)
	return s, nil
}

// Delete removes the schedule with id. Unknown ids are a no-op.
func (b *ScheduleBook) Delete(id string) (Schedule, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.items {
		if s.ID == id {
			b.items = append(b.items[:i:i], b.items[i+1:]...)
			return s, true
		}
	}
	return Schedule{}, false
}

func (b *ScheduleBook) Get(id string) (Schedule, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.items {
		if s.ID == id {
			return s, true
		}
	}
	return Schedule{}, false
}

func (b *ScheduleBook) List() []Schedule {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Schedule, len(b.items))
	copy(out, b.items)
	return out
}

func (b *ScheduleBook) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}
