package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/huangang/compliancewatch/internal/report"
	"github.com/huangang/compliancewatch/pkg/logger"
	"github.com/rs/zerolog"
)

var ErrGenerationInProgress = errors.New("a report is already being generated")

const (
	TriggerManual   = "manual"
	TriggerSchedule = "schedule"
)

// DateRanges lists the accepted date range values. The range is recorded
// but not yet applied to the datasets.
var DateRanges = []string{"last_24_hours", "last_7_days", "last_30_days", "last_quarter"}

type GenerateRequest struct {
	ReportType string `json:"report_type" binding:"required"`
	DateRange  string `json:"date_range"`
	Format     string `json:"format"`
	Delivery   string `json:"delivery"` // download (default) or data_uri
}

// GenerateResult is the outcome of a successful export.
type GenerateResult struct {
	Entry    report.HistoryEntry
	Artifact *report.Artifact
}

type ReportStats struct {
	Generated   int64 `json:"generated"`
	Failed      int64 `json:"failed"`
	HistorySize int   `json:"history_size"`
	Generating  bool  `json:"generating"`
}

// ReportService owns the export pipeline state: the generating flag, the
// history and the counters.
type ReportService struct {
	projector *report.Projector
	encoder   *report.Encoder
	history   *report.History
	events    *SSEHub
	audit     *AuditLogger
	archive   report.Emitter
	now       func() time.Time

	generating atomic.Bool
	generated  atomic.Int64
	failed     atomic.Int64
	log        zerolog.Logger
}

func NewReportService(projector *report.Projector, encoder *report.Encoder, events *SSEHub, audit *AuditLogger) *ReportService {
	return &ReportService{
		projector: projector,
		encoder:   encoder,
		history:   report.NewHistory(),
		events:    events,
		audit:     audit,
		now:       time.Now,
		log:       logger.Module("report"),
	}
}

// SetArchive makes every successful export also go to e.
func (s *ReportService) SetArchive(e report.Emitter) {
	s.archive = e
}

func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// Generate runs one interactive export. Only one interactive export may be
// in flight; a concurrent call gets ErrGenerationInProgress.
func (s *ReportService) Generate(ctx context.Context, actor string, req GenerateRequest, emitter report.Emitter) (*GenerateResult, error) {
	if !s.generating.CompareAndSwap(false, true) {
		return nil, ErrGenerationInProgress
	}
	defer s.generating.Store(false)

	format, err := report.ParseFormat(req.Format)
	if err != nil {
		s.log.Warn().Str("format", req.Format).Msg("unsupported export format")
		return nil, err
	}
	if req.DateRange != "" {
		s.log.Debug().Str("date_range", req.DateRange).Msg("date range accepted but not applied")
	}

	result, err := s.Export(ctx, req.ReportType, format, TriggerManual, emitter)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, "Report Generated",
		fmt.Sprintf("%s exported as %s (%s)", result.Entry.ReportTypeName, format, result.Entry.Filename))
	return result, nil
}

// Export projects, encodes and emits one report, then records it in the
// history. Unknown report types fail before anything is emitted.
func (s *ReportService) Export(ctx context.Context, reportType string, format report.Format, trigger string, emitter report.Emitter) (*GenerateResult, error) {
	desc, ok := report.Lookup(reportType)
	if !ok {
		s.log.Warn().Str("report_type", reportType).Msg("unknown report type")
		return nil, fmt.Errorf("%w: %q", report.ErrUnknownReportType, reportType)
	}

	now := s.now()
	artifact, err := s.render(ctx, desc, format, now)
	if err == nil {
		if err = emitter.Emit(ctx, artifact); err != nil {
			err = &report.ExportError{Stage: "emit", Err: err}
		}
	}
	if err != nil {
		s.failed.Add(1)
		s.log.Error().Err(err).Str("report_type", reportType).Str("format", string(format)).Msg("report export failed")
		s.events.Publish(ReportEvent{Type: EventReportFailed, ReportType: reportType, Format: string(format), Error: err.Error()})
		return nil, err
	}

	if s.archive != nil {
		if err := s.archive.Emit(ctx, artifact); err != nil {
			s.log.Warn().Err(err).Str("filename", artifact.Filename).Msg("failed to archive report")
		}
	}

	entry := report.HistoryEntry{
		ID:             uuid.NewString(),
		ReportName:     desc.Label,
		ReportType:     desc.ID,
		ReportTypeName: desc.Label,
		GeneratedAt:    now,
		Format:         format,
		Filename:       artifact.Filename,
		Trigger:        trigger,
	}
	s.history.Record(entry)
	s.generated.Add(1)

	s.log.Info().
		Str("report_type", reportType).
		Str("format", string(format)).
		Str("filename", artifact.Filename).
		Int("bytes", len(artifact.Body)).
		Str("trigger", trigger).
		Msg("report exported")
	s.events.Publish(ReportEvent{Type: EventReportGenerated, ReportType: reportType, Format: string(format), Filename: artifact.Filename})

	return &GenerateResult{Entry: entry, Artifact: artifact}, nil
}

func (s *ReportService) render(ctx context.Context, desc report.Descriptor, format report.Format, now time.Time) (*report.Artifact, error) {
	tab, err := s.projector.Project(ctx, desc.ID)
	if err != nil {
		return nil, &report.ExportError{Stage: "project", Err: err}
	}
	body, err := s.encoder.Encode(ctx, tab, format, now)
	if err != nil {
		return nil, &report.ExportError{Stage: "encode", Err: err}
	}
	return &report.Artifact{
		Filename:    report.Filename(desc.ID, format, now),
		ContentType: format.ContentType(),
		Format:      format,
		Body:        body,
	}, nil
}

// Preview returns the projection without emitting or recording anything.
func (s *ReportService) Preview(ctx context.Context, reportType string) (*report.Tabular, error) {
	return s.projector.Project(ctx, reportType)
}

func (s *ReportService) History() []report.HistoryEntry {
	return s.history.List()
}

func (s *ReportService) IsGenerating() bool {
	return s.generating.Load()
}

func (s *ReportService) Stats() ReportStats {
	return ReportStats{
		Generated:   s.generated.Load(),
		Failed:      s.failed.Load(),
		HistorySize: s.history.Len(),
		Generating:  s.generating.Load(),
	}
}
