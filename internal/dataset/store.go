package dataset

import (
	"context"
	"fmt"

	"github.com/huangang/compliancewatch/internal/models"
	"github.com/huangang/compliancewatch/pkg/logger"
	"gorm.io/gorm"
)

// Store reads the compliance dataset from the database.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Snapshot returns the most recently captured compliance posture.
func (s *Store) Snapshot(ctx context.Context) (*models.ComplianceSnapshot, error) {
	var snap models.ComplianceSnapshot
	if err := s.db.WithContext(ctx).Order("captured_at DESC").First(&snap).Error; err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Store) Violations(ctx context.Context) ([]models.ViolationAlert, error) {
	var alerts []models.ViolationAlert
	err := s.db.WithContext(ctx).Order("timestamp DESC").Find(&alerts).Error
	return alerts, err
}

func (s *Store) AuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.db.WithContext(ctx).Order("timestamp DESC, id DESC").Find(&logs).Error
	return logs, err
}

func (s *Store) DepartmentRisks(ctx context.Context) ([]models.DepartmentRisk, error) {
	var risks []models.DepartmentRisk
	err := s.db.WithContext(ctx).Order("seq ASC, id ASC").Find(&risks).Error
	return risks, err
}

func (s *Store) RegulatoryUpdates(ctx context.Context) ([]models.RegulatoryUpdate, error) {
	var updates []models.RegulatoryUpdate
	err := s.db.WithContext(ctx).Order("date DESC").Find(&updates).Error
	return updates, err
}

func (s *Store) ComplianceTrend(ctx context.Context) ([]models.ComplianceTrendPoint, error) {
	var points []models.ComplianceTrendPoint
	err := s.db.WithContext(ctx).Order("seq ASC").Find(&points).Error
	return points, err
}

func (s *Store) Policies(ctx context.Context) ([]models.Policy, error) {
	var policies []models.Policy
	err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&policies).Error
	return policies, err
}

func (s *Store) AddPolicy(ctx context.Context, p *models.Policy) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Store) AppendAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// Seed copies the mock dataset into an empty database. It is a no-op when
// violation alerts already exist.
func Seed(ctx context.Context, db *gorm.DB, mock *Mock) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.ViolationAlert{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count violation alerts: %w", err)
	}
	if count > 0 {
		logger.Infof("[Dataset] Database already seeded (%d alerts), skipping", count)
		return nil
	}

	mock.mu.RLock()
	defer mock.mu.RUnlock()

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		snap := mock.snapshot
		if err := tx.Create(&snap).Error; err != nil {
			return err
		}
		alerts := append([]models.ViolationAlert(nil), mock.alerts...)
		if err := tx.Create(&alerts).Error; err != nil {
			return err
		}
		// IDs are assigned by the database.
		logs := make([]models.AuditLog, len(mock.audit))
		for i, l := range mock.audit {
			l.ID = 0
			logs[len(logs)-1-i] = l
		}
		if err := tx.Create(&logs).Error; err != nil {
			return err
		}
		risks := append([]models.DepartmentRisk(nil), mock.risks...)
		if err := tx.Create(&risks).Error; err != nil {
			return err
		}
		updates := append([]models.RegulatoryUpdate(nil), mock.updates...)
		if err := tx.Create(&updates).Error; err != nil {
			return err
		}
		trend := make([]models.ComplianceTrendPoint, len(mock.trend))
		for i, p := range mock.trend {
			p.ID = 0
			trend[i] = p
		}
		if err := tx.Create(&trend).Error; err != nil {
			return err
		}
		policies := append([]models.Policy(nil), mock.policies...)
		return tx.Create(&policies).Error
	})
	if err != nil {
		return fmt.Errorf("seed dataset: %w", err)
	}

	logger.Infof("[Dataset] Seeded %d alerts, %d departments, %d policies", len(mock.alerts), len(mock.risks), len(mock.policies))
	return nil
}
