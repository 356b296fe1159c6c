package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangang/compliancewatch/internal/dataset"
	"github.com/huangang/compliancewatch/internal/report"
)

func newTestReportService(t *testing.T) (*ReportService, *dataset.Mock) {
	t.Helper()
	mock := dataset.NewMock(time.Now())
	projector := report.NewProjector(mock, time.UTC)
	svc := NewReportService(projector, report.NewEncoder(nil), NewSSEHub(), NewAuditLogger(mock))
	return svc, mock
}

type recordingEmitter struct {
	mu        sync.Mutex
	artifacts []*report.Artifact
}

func (e *recordingEmitter) Emit(_ context.Context, a *report.Artifact) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.artifacts = append(e.artifacts, a)
	return nil
}

func (e *recordingEmitter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.artifacts)
}

func TestReportService_Generate(t *testing.T) {
	svc, _ := newTestReportService(t)
	svc.SetClock(func() time.Time { return time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC) })
	emitter := &recordingEmitter{}

	result, err := svc.Generate(context.Background(), "admin@example.com", GenerateRequest{ReportType: "risk_assessment", Format: "csv"}, emitter)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if result.Entry.Filename != "Risk-Assessment-Report-2025-03-20.csv" {
		t.Errorf("Filename = %q", result.Entry.Filename)
	}
	if result.Entry.Trigger != TriggerManual {
		t.Errorf("Trigger = %q", result.Entry.Trigger)
	}
	if emitter.count() != 1 {
		t.Errorf("emitted %d artifacts, expected 1", emitter.count())
	}
	if h := svc.History(); len(h) != 1 || h[0].ID != result.Entry.ID {
		t.Errorf("History() = %+v", h)
	}
	if svc.IsGenerating() {
		t.Error("generating flag should be reset after success")
	}
}

func TestReportService_HistoryCappedAtTen(t *testing.T) {
	svc, _ := newTestReportService(t)
	emitter := &recordingEmitter{}

	var last *GenerateResult
	for i := 0; i < 12; i++ {
		res, err := svc.Generate(context.Background(), "", GenerateRequest{ReportType: "audit_trail", Format: "json"}, emitter)
		if err != nil {
			t.Fatalf("Generate() #%d error = %v", i, err)
		}
		last = res
	}

	history := svc.History()
	if len(history) != report.HistoryLimit {
		t.Fatalf("len(History()) = %d, expected %d", len(history), report.HistoryLimit)
	}
	if history[0].ID != last.Entry.ID {
		t.Error("history head should be the latest generation")
	}
	if stats := svc.Stats(); stats.Generated != 12 || stats.HistorySize != 10 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestReportService_UnknownTypeLeavesNoTrace(t *testing.T) {
	svc, _ := newTestReportService(t)
	emitter := &recordingEmitter{}

	_, err := svc.Generate(context.Background(), "", GenerateRequest{ReportType: "quarterly_forecast", Format: "pdf"}, emitter)
	if !errors.Is(err, report.ErrUnknownReportType) {
		t.Fatalf("error = %v, expected ErrUnknownReportType", err)
	}
	if svc.IsGenerating() {
		t.Error("generating flag should be reset after failure")
	}
	if len(svc.History()) != 0 {
		t.Error("history should be unchanged")
	}
	if emitter.count() != 0 {
		t.Error("nothing should be emitted")
	}
}

func TestReportService_UnsupportedFormat(t *testing.T) {
	svc, _ := newTestReportService(t)
	_, err := svc.Generate(context.Background(), "", GenerateRequest{ReportType: "audit_trail", Format: "xlsx"}, &recordingEmitter{})
	if !errors.Is(err, report.ErrUnsupportedFormat) {
		t.Errorf("error = %v, expected ErrUnsupportedFormat", err)
	}
	if svc.IsGenerating() {
		t.Error("generating flag should be reset")
	}
}

func TestReportService_EmitFailureIsExportError(t *testing.T) {
	svc, _ := newTestReportService(t)
	boom := errors.New("connection reset")
	failing := report.EmitterFunc(func(context.Context, *report.Artifact) error { return boom })

	_, err := svc.Generate(context.Background(), "", GenerateRequest{ReportType: "compliance_summary", Format: "csv"}, failing)

	var exportErr *report.ExportError
	if !errors.As(err, &exportErr) || exportErr.Stage != "emit" {
		t.Fatalf("error = %v, expected emit ExportError", err)
	}
	if !errors.Is(err, boom) {
		t.Error("ExportError should wrap the emitter error")
	}
	if len(svc.History()) != 0 {
		t.Error("failed export must not be recorded")
	}
	if svc.Stats().Failed != 1 {
		t.Errorf("Failed = %d, expected 1", svc.Stats().Failed)
	}
}

func TestReportService_RejectsConcurrentGeneration(t *testing.T) {
	svc, _ := newTestReportService(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	blocking := report.EmitterFunc(func(context.Context, *report.Artifact) error {
		close(entered)
		<-release
		return nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Generate(context.Background(), "", GenerateRequest{ReportType: "risk_assessment", Format: "csv"}, blocking)
		done <- err
	}()
	<-entered

	if !svc.IsGenerating() {
		t.Error("expected generating flag while export is in flight")
	}
	_, err := svc.Generate(context.Background(), "", GenerateRequest{ReportType: "risk_assessment", Format: "csv"}, &recordingEmitter{})
	if !errors.Is(err, ErrGenerationInProgress) {
		t.Errorf("error = %v, expected ErrGenerationInProgress", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	if len(svc.History()) != 1 {
		t.Errorf("len(History()) = %d, expected 1", len(svc.History()))
	}
}

func TestReportService_ExportBypassesGuard(t *testing.T) {
	svc, _ := newTestReportService(t)
	svc.generating.Store(true)

	if _, err := svc.Export(context.Background(), "risk_assessment", report.FormatJSON, TriggerSchedule, &recordingEmitter{}); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
}

func TestReportService_GenerateAppendsAuditEntry(t *testing.T) {
	svc, mock := newTestReportService(t)

	if _, err := svc.Generate(context.Background(), "auditor@example.com", GenerateRequest{ReportType: "violation_details", Format: "pdf"}, &recordingEmitter{}); err != nil {
		t.Fatal(err)
	}

	logs, _ := mock.AuditLogs(context.Background())
	if logs[0].User != "auditor@example.com" || logs[0].Action != "Report Generated" {
		t.Errorf("newest audit entry = %+v", logs[0])
	}
}

func TestReportService_ArchiveFailureIsNotFatal(t *testing.T) {
	svc, _ := newTestReportService(t)
	var archived atomic.Int32
	svc.SetArchive(report.EmitterFunc(func(context.Context, *report.Artifact) error {
		archived.Add(1)
		return fmt.Errorf("read-only file system")
	}))

	if _, err := svc.Generate(context.Background(), "", GenerateRequest{ReportType: "audit_trail", Format: "csv"}, &recordingEmitter{}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if archived.Load() != 1 {
		t.Error("archive emitter should have been called")
	}
	if len(svc.History()) != 1 {
		t.Error("export should still be recorded")
	}
}

func TestReportService_Preview(t *testing.T) {
	svc, _ := newTestReportService(t)
	tab, err := svc.Preview(context.Background(), "risk_assessment")
	if err != nil {
		t.Fatal(err)
	}
	if len(tab.Rows) != 8 {
		t.Errorf("len(Rows) = %d, expected 8", len(tab.Rows))
	}
	if len(svc.History()) != 0 {
		t.Error("preview must not record history")
	}
}
