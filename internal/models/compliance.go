package models

import "time"

// ComplianceSnapshot is the headline compliance posture at a point in time.
type ComplianceSnapshot struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OverallScore   float64   `json:"overall_score"`
	TargetScore    float64   `json:"target_score"`
	TotalAlerts    int       `json:"total_alerts"`
	CriticalAlerts int       `json:"critical_alerts"`
	MediumAlerts   int       `json:"medium_alerts"`
	ActivePolicies int       `json:"active_policies"`
	PolicyCoverage float64   `json:"policy_coverage"`
	LastAuditDate  time.Time `json:"last_audit_date"`
	CapturedAt     time.Time `gorm:"index" json:"captured_at"`
}

func (ComplianceSnapshot) TableName() string { return "compliance_snapshots" }

// ComplianceTrendPoint is one entry of the monthly score history.
type ComplianceTrendPoint struct {
	ID    uint    `gorm:"primaryKey" json:"-"`
	Seq   int     `gorm:"index" json:"-"`
	Month string  `gorm:"size:20" json:"month"`
	Score float64 `json:"score"`
}

func (ComplianceTrendPoint) TableName() string { return "compliance_trend" }

// RegulatoryUpdate is a published change to a regulatory framework.
type RegulatoryUpdate struct {
	ID        string    `gorm:"primaryKey;size:50" json:"id"`
	Title     string    `gorm:"size:300;not null" json:"title"`
	Date      time.Time `gorm:"index" json:"date"`
	Summary   string    `gorm:"type:text" json:"summary"`
	Framework string    `gorm:"size:50;index" json:"framework"` // GDPR, HIPAA, ...
	Link      string    `gorm:"size:500" json:"link,omitempty"`
}

func (RegulatoryUpdate) TableName() string { return "regulatory_updates" }
