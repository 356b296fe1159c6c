package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/huangang/compliancewatch/internal/dataset"
	"github.com/huangang/compliancewatch/internal/models"
	"github.com/huangang/compliancewatch/internal/report"
)

var fixedNow = time.Date(2025, 3, 20, 14, 5, 9, 0, time.UTC)

func newProjector() *report.Projector {
	return report.NewProjector(dataset.NewMock(fixedNow), time.UTC)
}

func TestProject_RowsMatchHeaders(t *testing.T) {
	p := newProjector()
	for _, d := range report.Types() {
		t.Run(d.ID, func(t *testing.T) {
			tab, err := p.Project(context.Background(), d.ID)
			if err != nil {
				t.Fatalf("Project() error = %v", err)
			}
			if tab.Title != d.Label {
				t.Errorf("Title = %q, expected %q", tab.Title, d.Label)
			}
			if len(tab.Rows) == 0 {
				t.Fatal("expected rows")
			}
			for i, row := range tab.Rows {
				if len(row) != len(tab.Headers) {
					t.Errorf("row %d has %d cells, expected %d", i, len(row), len(tab.Headers))
				}
			}
			if err := tab.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestProject_Headers(t *testing.T) {
	tests := []struct {
		id      string
		headers []string
	}{
		{report.TypeComplianceSummary, []string{"Metric", "Value"}},
		{report.TypeViolationDetails, []string{"ID", "Timestamp", "Severity", "Description", "Source", "Rule Triggered", "Status", "Department"}},
		{report.TypeAuditTrail, []string{"Timestamp", "User", "Action", "Details"}},
		{report.TypeRiskAssessment, []string{"ID", "Department Name", "Risk Score (%)"}},
	}

	p := newProjector()
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			tab, err := p.Project(context.Background(), tt.id)
			if err != nil {
				t.Fatal(err)
			}
			if strings.Join(tab.Headers, "|") != strings.Join(tt.headers, "|") {
				t.Errorf("Headers = %v, expected %v", tab.Headers, tt.headers)
			}
		})
	}
}

func TestProject_UnknownType(t *testing.T) {
	_, err := newProjector().Project(context.Background(), "quarterly_forecast")
	if !errors.Is(err, report.ErrUnknownReportType) {
		t.Errorf("error = %v, expected ErrUnknownReportType", err)
	}
}

func TestProject_SummaryMetrics(t *testing.T) {
	tab, err := newProjector().Project(context.Background(), report.TypeComplianceSummary)
	if err != nil {
		t.Fatal(err)
	}

	expected := [][]any{
		{"Overall Score", 96.5},
		{"Total Alerts", 7},
		{"Critical Alerts", 2},
		{"Active Policies", 12},
		{"Last Audit Date", "3/10/2025"},
	}
	if len(tab.Rows) != len(expected) {
		t.Fatalf("len(Rows) = %d, expected %d", len(tab.Rows), len(expected))
	}
	for i, row := range expected {
		if tab.Rows[i][0] != row[0] || tab.Rows[i][1] != row[1] {
			t.Errorf("row %d = %v, expected %v", i, tab.Rows[i], row)
		}
	}
}

func TestProject_ViolationTimestampsAreLocalized(t *testing.T) {
	tab, err := newProjector().Project(context.Background(), report.TypeViolationDetails)
	if err != nil {
		t.Fatal(err)
	}
	// alert1 is one hour before fixedNow.
	if got := tab.Rows[0][1]; got != "3/20/2025, 1:05:09 PM" {
		t.Errorf("timestamp = %v", got)
	}
}

func TestProject_MissingDepartment(t *testing.T) {
	src := &departmentlessSource{Mock: dataset.NewMock(fixedNow)}
	tab, err := report.NewProjector(src, time.UTC).Project(context.Background(), report.TypeViolationDetails)
	if err != nil {
		t.Fatal(err)
	}
	for i, row := range tab.Rows {
		if row[7] != "N/A" {
			t.Errorf("row %d department = %v, expected N/A", i, row[7])
		}
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	p := newProjector()
	for _, d := range report.Types() {
		t.Run(d.ID, func(t *testing.T) {
			tab, err := p.Project(context.Background(), d.ID)
			if err != nil {
				t.Fatal(err)
			}
			body, err := report.EncodeCSV(tab)
			if err != nil {
				t.Fatal(err)
			}

			records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
			if err != nil {
				t.Fatalf("csv parse: %v", err)
			}
			if len(records) != len(tab.Rows)+1 {
				t.Fatalf("parsed %d records, expected %d", len(records), len(tab.Rows)+1)
			}
			for i, row := range tab.Rows {
				for j, cell := range row {
					if records[i+1][j] != report.FormatCell(cell) {
						t.Errorf("cell (%d,%d) = %q, expected %q", i, j, records[i+1][j], report.FormatCell(cell))
					}
				}
			}
		})
	}
}

func TestCSV_RiskAssessment(t *testing.T) {
	tab, err := newProjector().Project(context.Background(), report.TypeRiskAssessment)
	if err != nil {
		t.Fatal(err)
	}
	body, err := report.EncodeCSV(tab)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(string(body), "\n")
	if len(lines) != 9 {
		t.Fatalf("got %d lines, expected header plus 8 rows", len(lines))
	}
	if lines[0] != "ID,Department Name,Risk Score (%)" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `"dept1","Finance","75"` {
		t.Errorf("first row = %q", lines[1])
	}
	if strings.HasSuffix(string(body), "\n") {
		t.Error("csv must not end with a newline")
	}
}

func TestCSV_EscapesQuotes(t *testing.T) {
	tab := &report.Tabular{
		Headers: []string{"Details"},
		Rows:    [][]any{{`Policy "Data Privacy V2" updated`}},
	}
	body, err := report.EncodeCSV(tab)
	if err != nil {
		t.Fatal(err)
	}
	expected := "Details\n\"Policy \"\"Data Privacy V2\"\" updated\""
	if string(body) != expected {
		t.Errorf("csv = %q, expected %q", body, expected)
	}
}

func TestJSON_RecordCount(t *testing.T) {
	src := dataset.NewMock(fixedNow)
	p := report.NewProjector(src, time.UTC)
	ctx := context.Background()

	alerts, _ := src.Violations(ctx)
	logs, _ := src.AuditLogs(ctx)
	risks, _ := src.DepartmentRisks(ctx)

	tests := []struct {
		id    string
		count int
	}{
		{report.TypeComplianceSummary, 5},
		{report.TypeViolationDetails, len(alerts)},
		{report.TypeAuditTrail, len(logs)},
		{report.TypeRiskAssessment, len(risks)},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			tab, err := p.Project(ctx, tt.id)
			if err != nil {
				t.Fatal(err)
			}
			body, err := report.EncodeJSON(tab)
			if err != nil {
				t.Fatal(err)
			}
			var decoded []map[string]any
			if err := json.Unmarshal(body, &decoded); err != nil {
				t.Fatalf("json parse: %v", err)
			}
			if len(decoded) != tt.count {
				t.Errorf("len = %d, expected %d", len(decoded), tt.count)
			}
		})
	}
}

func TestJSON_RiskRecordShape(t *testing.T) {
	tab, err := newProjector().Project(context.Background(), report.TypeRiskAssessment)
	if err != nil {
		t.Fatal(err)
	}
	body, err := report.EncodeJSON(tab)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(body), "[\n  {\n    \"id\": \"dept1\",") {
		t.Errorf("unexpected layout:\n%s", body)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded[0]["name"] != "Finance" || decoded[0]["riskScore"] != float64(75) {
		t.Errorf("first record = %v", decoded[0])
	}
}

func TestEncoders_RejectMalformed(t *testing.T) {
	bad := &report.Tabular{Headers: []string{"A", "B"}, Rows: [][]any{{"only one"}}}

	if _, err := report.EncodeCSV(bad); !errors.Is(err, report.ErrMalformedReport) {
		t.Errorf("csv error = %v", err)
	}
	if _, err := report.EncodeJSON(bad); !errors.Is(err, report.ErrMalformedReport) {
		t.Errorf("json error = %v", err)
	}
	enc := report.NewEncoder(nil)
	if _, err := enc.Encode(context.Background(), bad, report.FormatPDF, fixedNow); !errors.Is(err, report.ErrMalformedReport) {
		t.Errorf("pdf error = %v", err)
	}
}

func TestEncoder_UnsupportedFormat(t *testing.T) {
	tab := &report.Tabular{Headers: []string{"A"}}
	_, err := report.NewEncoder(nil).Encode(context.Background(), tab, report.Format("xlsx"), fixedNow)
	if !errors.Is(err, report.ErrUnsupportedFormat) {
		t.Errorf("error = %v, expected ErrUnsupportedFormat", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    report.Format
		wantErr bool
	}{
		{"", report.FormatPDF, false},
		{"pdf", report.FormatPDF, false},
		{"CSV", report.FormatCSV, false},
		{" json ", report.FormatJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(strconv.Quote(tt.in), func(t *testing.T) {
			got, err := report.ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

type departmentlessSource struct {
	*dataset.Mock
}

func (s *departmentlessSource) Violations(ctx context.Context) ([]models.ViolationAlert, error) {
	alerts, err := s.Mock.Violations(ctx)
	for i := range alerts {
		alerts[i].Department = ""
	}
	return alerts, err
}
