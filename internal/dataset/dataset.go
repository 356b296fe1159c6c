// Package dataset provides the compliance data that reports and the
// dashboard read: an in-memory mock catalog and a gorm backed store.
package dataset

import (
	"context"

	"github.com/huangang/compliancewatch/internal/models"
	"github.com/huangang/compliancewatch/internal/report"
)

// Catalog is everything the API reads or appends besides schedules.
type Catalog interface {
	report.Source
	RegulatoryUpdates(ctx context.Context) ([]models.RegulatoryUpdate, error)
	ComplianceTrend(ctx context.Context) ([]models.ComplianceTrendPoint, error)
	Policies(ctx context.Context) ([]models.Policy, error)
	AddPolicy(ctx context.Context, p *models.Policy) error
	AppendAuditLog(ctx context.Context, entry *models.AuditLog) error
}
