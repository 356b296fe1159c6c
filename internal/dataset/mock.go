package dataset

import (
	"context"
	"sync"
	"time"

	"github.com/huangang/compliancewatch/internal/models"
)

// Mock is the seeded, in-memory compliance dataset.
type Mock struct {
	mu       sync.RWMutex
	snapshot models.ComplianceSnapshot
	alerts   []models.ViolationAlert
	audit    []models.AuditLog
	risks    []models.DepartmentRisk
	updates  []models.RegulatoryUpdate
	trend    []models.ComplianceTrendPoint
	policies []models.Policy
	nextLog  uint
}

// NewMock seeds the dataset with timestamps relative to now.
func NewMock(now time.Time) *Mock {
	m := &Mock{
		snapshot: models.ComplianceSnapshot{
			ID:             1,
			OverallScore:   96.5,
			TargetScore:    95,
			TotalAlerts:    7,
			CriticalAlerts: 2,
			MediumAlerts:   3,
			ActivePolicies: 12,
			PolicyCoverage: 85,
			LastAuditDate:  now.Add(-10 * 24 * time.Hour),
			CapturedAt:     now,
		},
		alerts: []models.ViolationAlert{
			{
				ID:            "alert1",
				Timestamp:     now.Add(-1 * time.Hour),
				Severity:      models.SeverityCritical,
				Description:   "Unauthorized access attempt detected on production database.",
				Source:        "System Log XYZ123",
				RuleTriggered: "Access Control Policy Violation",
				Status:        models.AlertStatusNew,
				Department:    "IT Operations",
			},
			{
				ID:            "alert2",
				Timestamp:     now.Add(-2 * time.Hour),
				Severity:      models.SeverityHigh,
				Description:   "Large financial transaction ($75,000) to a high-risk country flagged.",
				Source:        "TXN_ID_98765",
				RuleTriggered: "AML Policy - High-Risk Transaction",
				Status:        models.AlertStatusInvestigating,
				Department:    "Finance",
			},
			{
				ID:            "alert3",
				Timestamp:     now.Add(-3 * time.Hour),
				Severity:      models.SeverityMedium,
				Description:   "PII data shared in an internal communication channel without encryption.",
				Source:        "Chat Log #CH456",
				RuleTriggered: "Data Privacy Policy - PII Handling",
				Status:        models.AlertStatusNew,
				Department:    "Marketing",
			},
			{
				ID:            "alert4",
				Timestamp:     now.Add(-24 * time.Hour),
				Severity:      models.SeverityLow,
				Description:   "User login from an unrecognized IP address (outside office hours).",
				Source:        "Auth Log - User JohnDoe",
				RuleTriggered: "User Behavior Analytics",
				Status:        models.AlertStatusResolved,
				Department:    "Sales",
			},
			{
				ID:            "alert5",
				Timestamp:     now.Add(-48 * time.Hour),
				Severity:      models.SeverityMedium,
				Description:   `Policy document "Q3 Financial Projections" accessed by an unauthorized department.`,
				Source:        "File Access Log - DocID 789",
				RuleTriggered: "Document Access Policy",
				Status:        models.AlertStatusInvestigating,
				Department:    "HR",
			},
			{
				ID:            "alert6",
				Timestamp:     now.Add(-72 * time.Hour),
				Severity:      models.SeverityCritical,
				Description:   "Multiple failed login attempts for admin account.",
				Source:        "Auth Log - Admin",
				RuleTriggered: "Brute Force Detection",
				Status:        models.AlertStatusNew,
				Department:    "IT Operations",
			},
		},
		audit: []models.AuditLog{
			{ID: 3, Timestamp: now.Add(-100 * time.Second), User: "admin@example.com", Action: "Logged In", Details: "Successful login from IP 192.168.1.10"},
			{ID: 2, Timestamp: now.Add(-200 * time.Second), User: "user1@example.com", Action: "Policy Update", Details: `Policy "Data Privacy V2" updated`},
			{ID: 1, Timestamp: now.Add(-300 * time.Second), User: "system", Action: "Alert Generated", Details: "Critical Alert ID: alert1 triggered"},
		},
		risks: []models.DepartmentRisk{
			{ID: "dept1", Name: "Finance", RiskScore: 75, Seq: 1},
			{ID: "dept2", Name: "Sales", RiskScore: 45, Seq: 2},
			{ID: "dept3", Name: "HR", RiskScore: 20, Seq: 3},
			{ID: "dept4", Name: "IT Operations", RiskScore: 85, Seq: 4},
			{ID: "dept5", Name: "Marketing", RiskScore: 60, Seq: 5},
			{ID: "dept6", Name: "Legal", RiskScore: 30, Seq: 6},
			{ID: "dept7", Name: "Customer Support", RiskScore: 50, Seq: 7},
			{ID: "dept8", Name: "R&D", RiskScore: 65, Seq: 8},
		},
		updates: []models.RegulatoryUpdate{
			{
				ID:        "1",
				Title:     "New GDPR Guidance on AI Systems",
				Date:      day(2024, time.July, 25),
				Summary:   "The European Data Protection Board (EDPB) has released new comprehensive guidelines concerning the application of the General Data Protection Regulation (GDPR) to artificial intelligence systems. These guidelines place a strong emphasis on principles such as data minimization, purpose limitation, fairness, and transparency. They also detail requirements for Data Protection Impact Assessments (DPIAs) for high-risk AI applications and clarify the roles and responsibilities of data controllers and processors when deploying AI technologies.",
				Framework: "GDPR",
				Link:      "#",
			},
			{
				ID:        "2",
				Title:     "PCI DSS v4.0 Deadline Approaching",
				Date:      day(2024, time.July, 20),
				Summary:   "Organizations handling cardholder data are reminded that the deadline for full compliance with PCI DSS v4.0 requirements is rapidly approaching. Key changes in v4.0 include enhanced multi-factor authentication, more robust risk assessment processes, and customized validation approaches. Businesses should ensure their transition plans are well underway to meet the new standards and avoid potential non-compliance penalties.",
				Framework: "PCI DSS",
				Link:      "#",
			},
			{
				ID:        "3",
				Title:     "HIPAA Update on Telehealth Services",
				Date:      day(2024, time.July, 15),
				Summary:   "The Department of Health and Human Services (HHS) has issued critical updates clarifying Health Insurance Portability and Accountability Act (HIPAA) rules for telehealth providers. These updates address patient consent requirements, data security measures for remote consultations, and best practices for protecting electronic Protected Health Information (ePHI) when using digital communication platforms for healthcare delivery.",
				Framework: "HIPAA",
				Link:      "#",
			},
			{
				ID:        "4",
				Title:     "SOX Section 302 & 404 Modernization",
				Date:      day(2024, time.July, 10),
				Summary:   "The SEC is considering proposals for modernizing Sarbanes-Oxley Act (SOX) compliance, particularly concerning Sections 302 and 404 related to internal controls over financial reporting (ICFR). Discussions include leveraging technology for more efficient testing and addressing cybersecurity risks within ICFR frameworks.",
				Framework: "SOX",
				Link:      "#",
			},
		},
		policies: []models.Policy{
			{ID: "pol1", Name: "Data Privacy Policy", Description: "Ensures compliance with GDPR and CCPA.", Category: "Data Privacy", Version: "2.1", LastUpdated: day(2024, time.July, 15), Status: models.PolicyStatusActive, RulesCount: 15, CreatedAt: now},
			{ID: "pol2", Name: "Financial Transaction Monitoring", Description: "Rules for detecting suspicious financial activities.", Category: "Financial Crime", Version: "1.5", LastUpdated: day(2024, time.June, 20), Status: models.PolicyStatusActive, RulesCount: 25, CreatedAt: now},
			{ID: "pol3", Name: "Access Control Policy", Description: "Defines access rights to systems and data.", Category: "Access Control", Version: "3.0", LastUpdated: day(2024, time.May, 30), Status: models.PolicyStatusActive, RulesCount: 42, CreatedAt: now},
			{ID: "pol4", Name: "Communication Monitoring (Draft)", Description: "Policy for monitoring internal and external communications for compliance.", Category: "Communication", Version: "0.8", LastUpdated: day(2024, time.July, 28), Status: models.PolicyStatusDraft, RulesCount: 8, CreatedAt: now},
		},
		nextLog: 4,
	}

	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	scores := []float64{85, 88, 90, 87, 92, 95, 96.5, 94, 97, 95.5, 98, 97.2}
	for i, month := range months {
		m.trend = append(m.trend, models.ComplianceTrendPoint{ID: uint(i + 1), Seq: i + 1, Month: month, Score: scores[i]})
	}
	return m
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func (m *Mock) Snapshot(ctx context.Context) (*models.ComplianceSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := m.snapshot
	return &snap, nil
}

func (m *Mock) Violations(ctx context.Context) ([]models.ViolationAlert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.ViolationAlert(nil), m.alerts...), nil
}

// AuditLogs returns the trail newest first.
func (m *Mock) AuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.AuditLog(nil), m.audit...), nil
}

func (m *Mock) DepartmentRisks(ctx context.Context) ([]models.DepartmentRisk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.DepartmentRisk(nil), m.risks...), nil
}

func (m *Mock) RegulatoryUpdates(ctx context.Context) ([]models.RegulatoryUpdate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.RegulatoryUpdate(nil), m.updates...), nil
}

func (m *Mock) ComplianceTrend(ctx context.Context) ([]models.ComplianceTrendPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.ComplianceTrendPoint(nil), m.trend...), nil
}

func (m *Mock) Policies(ctx context.Context) ([]models.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Policy(nil), m.policies...), nil
}

func (m *Mock) AddPolicy(ctx context.Context, p *models.Policy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies = append(m.policies, *p)
	return nil
}

// AppendAuditLog prepends entry so the trail stays newest first.
func (m *Mock) AppendAuditLog(ctx context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = m.nextLog
	m.nextLog++
	m.audit = append([]models.AuditLog{*entry}, m.audit...)
	return nil
}
