package dataset

import (
	"context"
	"testing"
	"time"

	"github.com/huangang/compliancewatch/internal/models"
)

func TestNewMock_Counts(t *testing.T) {
	m := NewMock(time.Now())
	ctx := context.Background()

	alerts, _ := m.Violations(ctx)
	logs, _ := m.AuditLogs(ctx)
	risks, _ := m.DepartmentRisks(ctx)
	updates, _ := m.RegulatoryUpdates(ctx)
	trend, _ := m.ComplianceTrend(ctx)
	policies, _ := m.Policies(ctx)

	tests := []struct {
		name     string
		got      int
		expected int
	}{
		{"alerts", len(alerts), 6},
		{"audit logs", len(logs), 3},
		{"department risks", len(risks), 8},
		{"regulatory updates", len(updates), 4},
		{"trend points", len(trend), 12},
		{"policies", len(policies), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("len = %d, expected %d", tt.got, tt.expected)
			}
		})
	}
}

func TestMock_SnapshotRelativeToNow(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	snap, err := NewMock(now).Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.OverallScore != 96.5 {
		t.Errorf("OverallScore = %v, expected 96.5", snap.OverallScore)
	}
	if expected := now.AddDate(0, 0, -10); !snap.LastAuditDate.Equal(expected) {
		t.Errorf("LastAuditDate = %v, expected %v", snap.LastAuditDate, expected)
	}
}

func TestMock_ReturnsCopies(t *testing.T) {
	m := NewMock(time.Now())
	ctx := context.Background()

	risks, _ := m.DepartmentRisks(ctx)
	risks[0].Name = "mutated"

	again, _ := m.DepartmentRisks(ctx)
	if again[0].Name != "Finance" {
		t.Errorf("caller mutation leaked into dataset: %q", again[0].Name)
	}
}

func TestMock_AppendAuditLogPrepends(t *testing.T) {
	m := NewMock(time.Now())
	ctx := context.Background()

	entry := &models.AuditLog{Timestamp: time.Now(), User: "system", Action: "Report Generated", Details: "Risk Assessment Report (csv)"}
	if err := m.AppendAuditLog(ctx, entry); err != nil {
		t.Fatal(err)
	}

	logs, _ := m.AuditLogs(ctx)
	if len(logs) != 4 {
		t.Fatalf("len = %d, expected 4", len(logs))
	}
	if logs[0].Action != "Report Generated" {
		t.Errorf("head action = %q, expected newest entry first", logs[0].Action)
	}
	if entry.ID == 0 {
		t.Error("expected an id to be assigned")
	}
}

func TestMock_AddPolicy(t *testing.T) {
	m := NewMock(time.Now())
	ctx := context.Background()

	if err := m.AddPolicy(ctx, &models.Policy{ID: "pol5", Name: "Vendor Risk", Category: "Third Party"}); err != nil {
		t.Fatal(err)
	}
	policies, _ := m.Policies(ctx)
	if len(policies) != 5 || policies[4].ID != "pol5" {
		t.Errorf("policies = %+v", policies)
	}
}
