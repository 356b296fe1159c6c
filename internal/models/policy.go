package models

import "time"

type PolicyStatus string

const (
	PolicyStatusActive   PolicyStatus = "Active"
	PolicyStatusDraft    PolicyStatus = "Draft"
	PolicyStatusArchived PolicyStatus = "Archived"
)

// Policy is a named set of compliance rules.
type Policy struct {
	ID          string       `gorm:"primaryKey;size:64" json:"id"`
	Name        string       `gorm:"size:200;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Category    string       `gorm:"size:100;index" json:"category"`
	Version     string       `gorm:"size:20" json:"version"`
	LastUpdated time.Time    `json:"last_updated"`
	Status      PolicyStatus `gorm:"size:20;index" json:"status"`
	RulesCount  int          `json:"rules_count"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (Policy) TableName() string { return "policies" }
