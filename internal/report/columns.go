package report

import (
	"context"

	"github.com/huangang/compliancewatch/internal/models"
)

// MetricRecord is one row of the compliance summary.
type MetricRecord struct {
	Metric string `json:"Metric"`
	Value  any    `json:"Value"`
}

type ViolationRecord struct {
	ID            string `json:"id"`
	Timestamp     string `json:"timestamp"`
	Severity      string `json:"severity"`
	Description   string `json:"description"`
	Source        string `json:"source"`
	RuleTriggered string `json:"ruleTriggered"`
	Status        string `json:"status"`
	Department    string `json:"department"`
}

type AuditRecord struct {
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}

type RiskRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	RiskScore int    `json:"riskScore"`
}

const missingDepartment = "N/A"

type column[R any] struct {
	header string
	value  func(R) any
}

// definition couples a loader with the static column table of one report type.
type definition[R any] struct {
	load    func(ctx context.Context, src Source, c clock) ([]R, error)
	columns []column[R]
}

type projection interface {
	project(ctx context.Context, src Source, c clock) ([]string, [][]any, any, error)
}

func (d definition[R]) project(ctx context.Context, src Source, c clock) ([]string, [][]any, any, error) {
	records, err := d.load(ctx, src, c)
	if err != nil {
		return nil, nil, nil, err
	}
	if records == nil {
		records = []R{}
	}

	headers := make([]string, len(d.columns))
	for i, col := range d.columns {
		headers[i] = col.header
	}

	rows := make([][]any, 0, len(records))
	for _, r := range records {
		row := make([]any, len(d.columns))
		for i, col := range d.columns {
			row[i] = col.value(r)
		}
		rows = append(rows, row)
	}
	return headers, rows, records, nil
}

var definitions = map[string]projection{
	TypeComplianceSummary: definition[MetricRecord]{
		load: loadSummary,
		columns: []column[MetricRecord]{
			{"Metric", func(r MetricRecord) any { return r.Metric }},
			{"Value", func(r MetricRecord) any { return r.Value }},
		},
	},
	TypeViolationDetails: definition[ViolationRecord]{
		load: loadViolations,
		columns: []column[ViolationRecord]{
			{"ID", func(r ViolationRecord) any { return r.ID }},
			{"Timestamp", func(r ViolationRecord) any { return r.Timestamp }},
			{"Severity", func(r ViolationRecord) any { return r.Severity }},
			{"Description", func(r ViolationRecord) any { return r.Description }},
			{"Source", func(r ViolationRecord) any { return r.Source }},
			{"Rule Triggered", func(r ViolationRecord) any { return r.RuleTriggered }},
			{"Status", func(r ViolationRecord) any { return r.Status }},
			{"Department", func(r ViolationRecord) any { return r.Department }},
		},
	},
	TypeAuditTrail: definition[AuditRecord]{
		load: loadAuditTrail,
		columns: []column[AuditRecord]{
			{"Timestamp", func(r AuditRecord) any { return r.Timestamp }},
			{"User", func(r AuditRecord) any { return r.User }},
			{"Action", func(r AuditRecord) any { return r.Action }},
			{"Details", func(r AuditRecord) any { return r.Details }},
		},
	},
	TypeRiskAssessment: definition[RiskRecord]{
		load: loadRisks,
		columns: []column[RiskRecord]{
			{"ID", func(r RiskRecord) any { return r.ID }},
			{"Department Name", func(r RiskRecord) any { return r.Name }},
			{"Risk Score (%)", func(r RiskRecord) any { return r.RiskScore }},
		},
	},
}

// summaryMetrics fixes the order and labels of the compliance summary rows.
var summaryMetrics = []struct {
	key   string
	value func(s *models.ComplianceSnapshot, c clock) any
}{
	{"overallScore", func(s *models.ComplianceSnapshot, _ clock) any { return s.OverallScore }},
	{"totalAlerts", func(s *models.ComplianceSnapshot, _ clock) any { return s.TotalAlerts }},
	{"criticalAlerts", func(s *models.ComplianceSnapshot, _ clock) any { return s.CriticalAlerts }},
	{"activePolicies", func(s *models.ComplianceSnapshot, _ clock) any { return s.ActivePolicies }},
	{"lastAuditDate", func(s *models.ComplianceSnapshot, c clock) any { return c.date(s.LastAuditDate) }},
}

func loadSummary(ctx context.Context, src Source, c clock) ([]MetricRecord, error) {
	snap, err := src.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MetricRecord, 0, len(summaryMetrics))
	for _, m := range summaryMetrics {
		out = append(out, MetricRecord{Metric: ExpandCamel(m.key), Value: m.value(snap, c)})
	}
	return out, nil
}

func loadViolations(ctx context.Context, src Source, c clock) ([]ViolationRecord, error) {
	alerts, err := src.Violations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ViolationRecord, 0, len(alerts))
	for _, a := range alerts {
		dept := a.Department
		if dept == "" {
			dept = missingDepartment
		}
		out = append(out, ViolationRecord{
			ID:            a.ID,
			Timestamp:     c.timestamp(a.Timestamp),
			Severity:      string(a.Severity),
			Description:   a.Description,
			Source:        a.Source,
			RuleTriggered: a.RuleTriggered,
			Status:        string(a.Status),
			Department:    dept,
		})
	}
	return out, nil
}

func loadAuditTrail(ctx context.Context, src Source, c clock) ([]AuditRecord, error) {
	logs, err := src.AuditLogs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AuditRecord, 0, len(logs))
	for _, l := range logs {
		out = append(out, AuditRecord{
			Timestamp: c.timestamp(l.Timestamp),
			User:      l.User,
			Action:    l.Action,
			Details:   l.Details,
		})
	}
	return out, nil
}

func loadRisks(ctx context.Context, src Source, _ clock) ([]RiskRecord, error) {
	risks, err := src.DepartmentRisks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RiskRecord, 0, len(risks))
	for _, r := range risks {
		out = append(out, RiskRecord{ID: r.ID, Name: r.Name, RiskScore: r.RiskScore})
	}
	return out, nil
}
