package report

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFilename(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	at := time.Date(2025, 3, 20, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))

	tests := []struct {
		typeID string
		format Format
		want   string
	}{
		{TypeComplianceSummary, FormatPDF, "Compliance-Summary-2025-03-21.pdf"},
		{TypeAuditTrail, FormatCSV, "Audit-Trail-Log-2025-03-21.csv"},
		{TypeRiskAssessment, FormatJSON, "Risk-Assessment-Report-2025-03-21.json"},
	}
	for _, tt := range tests {
		t.Run(tt.typeID, func(t *testing.T) {
			if got := Filename(tt.typeID, tt.format, at); got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDirEmitter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	a := &Artifact{Filename: "Audit-Trail-Log-2025-03-21.csv", Format: FormatCSV, Body: []byte("Timestamp,User")}

	if err := (DirEmitter{Dir: dir}).Emit(context.Background(), a); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, a.Filename))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "Timestamp,User" {
		t.Errorf("file content = %q", got)
	}
}

func TestDirEmitter_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	a := &Artifact{Filename: "../../escape.csv", Body: []byte("x")}

	if err := (DirEmitter{Dir: dir}).Emit(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.csv")); err != nil {
		t.Errorf("expected file inside output dir: %v", err)
	}
}

func TestMultiEmitter_StopsOnError(t *testing.T) {
	boom := errors.New("disk full")
	var calls int
	count := EmitterFunc(func(context.Context, *Artifact) error { calls++; return nil })
	fail := EmitterFunc(func(context.Context, *Artifact) error { return boom })

	err := MultiEmitter(count, fail, count).Emit(context.Background(), &Artifact{})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, expected %v", err, boom)
	}
	if calls != 1 {
		t.Errorf("calls = %d, expected 1", calls)
	}
}

func TestDataURI(t *testing.T) {
	csvURI := DataURI(&Artifact{Format: FormatCSV, ContentType: FormatCSV.ContentType(), Body: []byte("ID,Name\n\"dept1\",\"R&D\"")})
	if csvURI != "data:text/csv;charset=utf-8,ID%2CName%0A%22dept1%22%2C%22R%26D%22" {
		t.Errorf("csv data uri = %q", csvURI)
	}

	pdfBody := []byte("%PDF-1.3 binary")
	pdfURI := DataURI(&Artifact{Format: FormatPDF, ContentType: FormatPDF.ContentType(), Body: pdfBody})
	prefix := "data:application/pdf;base64,"
	if !strings.HasPrefix(pdfURI, prefix) {
		t.Fatalf("pdf data uri = %q", pdfURI)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(pdfURI, prefix))
	if err != nil || string(decoded) != string(pdfBody) {
		t.Errorf("decoded = %q, err = %v", decoded, err)
	}
}
