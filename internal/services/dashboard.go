package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangang/compliancewatch/internal/dataset"
	"github.com/huangang/compliancewatch/internal/models"
	"github.com/huangang/compliancewatch/internal/report"
)

type DashboardService struct {
	catalog dataset.Catalog
	audit   *AuditLogger
	now     func() time.Time
}

func NewDashboardService(catalog dataset.Catalog, audit *AuditLogger) *DashboardService {
	return &DashboardService{catalog: catalog, audit: audit, now: time.Now}
}

type Overview struct {
	OverallScore   float64   `json:"overall_score"`
	TargetScore    float64   `json:"target_score"`
	ActiveAlerts   int       `json:"active_alerts"`
	CriticalAlerts int       `json:"critical_alerts"`
	MediumAlerts   int       `json:"medium_alerts"`
	PolicyCoverage float64   `json:"policy_coverage"`
	ActivePolicies int       `json:"active_policies"`
	LastAuditDate  time.Time `json:"last_audit_date"`
	MeetsTarget    bool      `json:"meets_target"`
}

func (s *DashboardService) Overview(ctx context.Context) (*Overview, error) {
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &Overview{
		OverallScore:   snap.OverallScore,
		TargetScore:    snap.TargetScore,
		ActiveAlerts:   snap.TotalAlerts,
		CriticalAlerts: snap.CriticalAlerts,
		MediumAlerts:   snap.MediumAlerts,
		PolicyCoverage: snap.PolicyCoverage,
		ActivePolicies: snap.ActivePolicies,
		LastAuditDate:  snap.LastAuditDate,
		MeetsTarget:    snap.OverallScore >= snap.TargetScore,
	}, nil
}

// Alerts returns violation alerts newest first, optionally filtered by
// severity ("" or "All" keeps everything).
func (s *DashboardService) Alerts(ctx context.Context, severity string) ([]models.ViolationAlert, error) {
	alerts, err := s.catalog.Violations(ctx)
	if err != nil {
		return nil, err
	}

	out := alerts[:0]
	for _, a := range alerts {
		if severity == "" || strings.EqualFold(severity, "all") || strings.EqualFold(string(a.Severity), severity) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskElevated RiskLevel = "elevated"
	RiskModerate RiskLevel = "moderate"
	RiskLow      RiskLevel = "low"
)

// ClassifyRisk buckets a 0-100 risk score.
func ClassifyRisk(score int) RiskLevel {
	switch {
	case score > 80:
		return RiskCritical
	case score > 60:
		return RiskHigh
	case score > 40:
		return RiskElevated
	case score > 20:
		return RiskModerate
	default:
		return RiskLow
	}
}

type RiskCell struct {
	models.DepartmentRisk
	Level RiskLevel `json:"level"`
}

func (s *DashboardService) RiskHeatMap(ctx context.Context) ([]RiskCell, error) {
	risks, err := s.catalog.DepartmentRisks(ctx)
	if err != nil {
		return nil, err
	}
	cells := make([]RiskCell, 0, len(risks))
	for _, r := range risks {
		cells = append(cells, RiskCell{DepartmentRisk: r, Level: ClassifyRisk(r.RiskScore)})
	}
	return cells, nil
}

// RegulatoryUpdates returns updates newest first.
func (s *DashboardService) RegulatoryUpdates(ctx context.Context) ([]models.RegulatoryUpdate, error) {
	updates, err := s.catalog.RegulatoryUpdates(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(updates, func(i, j int) bool { return updates[i].Date.After(updates[j].Date) })
	return updates, nil
}

func (s *DashboardService) ComplianceTrend(ctx context.Context) ([]models.ComplianceTrendPoint, error) {
	return s.catalog.ComplianceTrend(ctx)
}

func (s *DashboardService) Policies(ctx context.Context) ([]models.Policy, error) {
	return s.catalog.Policies(ctx)
}

type PolicyInput struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Version     string              `json:"version"`
	Status      models.PolicyStatus `json:"status"`
}

// CreatePolicy requires a name and a category. Version defaults to 1.0 and
// status to Draft.
func (s *DashboardService) CreatePolicy(ctx context.Context, actor string, in PolicyInput) (*models.Policy, error) {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if name == "" {
		return nil, &report.ValidationError{Field: "name", Message: "policy name is required"}
	}
	if category == "" {
		return nil, &report.ValidationError{Field: "category", Message: "policy category is required"}
	}

	now := s.now()
	p := &models.Policy{
		ID:          "pol_" + uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Category:    category,
		Version:     strings.TrimSpace(in.Version),
		Status:      in.Status,
		LastUpdated: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt:   now,
	}
	if p.Version == "" {
		p.Version = "1.0"
	}
	if p.Status == "" {
		p.Status = models.PolicyStatusDraft
	}

	if err := s.catalog.AddPolicy(ctx, p); err != nil {
		return nil, fmt.Errorf("save policy: %w", err)
	}
	s.audit.Record(ctx, actor, "Policy Created", fmt.Sprintf("Policy %q (%s) v%s", p.Name, p.Category, p.Version))
	return p, nil
}
