package models

import "time"

type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

type AlertStatus string

const (
	AlertStatusNew           AlertStatus = "New"
	AlertStatusInvestigating AlertStatus = "Investigating"
	AlertStatusResolved      AlertStatus = "Resolved"
	AlertStatusFalsePositive AlertStatus = "False Positive"
)

// ViolationAlert is a compliance rule violation raised against a department.
type ViolationAlert struct {
	ID            string      `gorm:"primaryKey;size:50" json:"id"`
	Timestamp     time.Time   `gorm:"index" json:"timestamp"`
	Severity      Severity    `gorm:"size:20;index" json:"severity"`
	Description   string      `gorm:"type:text" json:"description"`
	Source        string      `gorm:"size:200" json:"source"`         // transaction id, log reference, ...
	RuleTriggered string      `gorm:"size:200" json:"rule_triggered"` // e.g. "AML Policy - High-Risk Transaction"
	Status        AlertStatus `gorm:"size:30" json:"status"`
	Department    string      `gorm:"size:100" json:"department,omitempty"`
}

func (ViolationAlert) TableName() string { return "violation_alerts" }

// DepartmentRisk holds a 0-100 risk score for one department.
type DepartmentRisk struct {
	ID        string `gorm:"primaryKey;size:50" json:"id"`
	Name      string `gorm:"size:100;not null" json:"name"`
	RiskScore int    `json:"risk_score"`
	Seq       int    `gorm:"index" json:"-"`
}

func (DepartmentRisk) TableName() string { return "department_risks" }
