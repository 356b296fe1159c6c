package models

import "time"

// AuditLog is one entry of the user/system activity trail.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	User      string    `gorm:"size:255;index" json:"user"`
	Action    string    `gorm:"size:200;index" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
}

func (AuditLog) TableName() string { return "audit_logs" }
