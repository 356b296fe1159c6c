// Package report turns compliance datasets into downloadable reports.
//
// A request flows through four stages: the registry resolves the report
// type, the projector builds a Tabular from a Source, an encoder serializes
// it as pdf, csv or json, and an Emitter delivers the resulting Artifact.
// Successful exports are kept in a capped History.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangang/compliancewatch/internal/models"
)

const (
	TypeComplianceSummary = "compliance_summary"
	TypeViolationDetails  = "violation_details"
	TypeAuditTrail        = "audit_trail"
	TypeRiskAssessment    = "risk_assessment"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat normalizes a user supplied format. Empty input selects pdf.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f Format) Extension() string {
	return string(f)
}

func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Tabular is the (headers, rows) projection of one dataset.
// Records keeps the per-record objects the json encoding emits.
type Tabular struct {
	Title   string   `json:"title"`
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
	Records any      `json:"-"`
}

// Validate checks that every row has exactly one cell per header.
func (t *Tabular) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil report", ErrMalformedReport)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return fmt.Errorf("%w: row %d has %d cells, expected %d", ErrMalformedReport, i, len(row), len(t.Headers))
		}
	}
	return nil
}

// Source provides the datasets reports are projected from.
type Source interface {
	Snapshot(ctx context.Context) (*models.ComplianceSnapshot, error)
	Violations(ctx context.Context) ([]models.ViolationAlert, error)
	AuditLogs(ctx context.Context) ([]models.AuditLog, error)
	DepartmentRisks(ctx context.Context) ([]models.DepartmentRisk, error)
}
