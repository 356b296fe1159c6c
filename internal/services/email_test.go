package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/huangang/compliancewatch/internal/config"
	"github.com/huangang/compliancewatch/internal/report"
)

func TestEmailService_SendRequiresConfig(t *testing.T) {
	svc := NewEmailService(config.SMTPConfig{Port: 587})
	err := svc.Send(context.Background(), []string{"a@example.com"}, "subject", "body", nil)
	if !errors.Is(err, ErrMailerNotConfigured) {
		t.Errorf("error = %v, expected ErrMailerNotConfigured", err)
	}
}

func TestEmailService_BuildMessage(t *testing.T) {
	svc := NewEmailService(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "reports@example.com"})
	attachment := &report.Artifact{
		Filename:    "Audit-Trail-Log-2025-03-20.csv",
		ContentType: report.FormatCSV.ContentType(),
		Format:      report.FormatCSV,
		Body:        []byte("Timestamp,User,Action,Details"),
	}

	msg := svc.BuildMessage([]string{"a@example.com", "b@example.com"}, "[CW] Audit Trail Log", "<p>attached</p>", attachment)

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	raw := buf.String()

	for _, want := range []string{
		"From: reports@example.com",
		"a@example.com",
		"Subject: [CW] Audit Trail Log",
		"Audit-Trail-Log-2025-03-20.csv",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestEmailService_FromFallsBackToUsername(t *testing.T) {
	svc := NewEmailService(config.SMTPConfig{Host: "smtp.example.com", Username: "bot@example.com"})
	if svc.from() != "bot@example.com" {
		t.Errorf("from() = %q", svc.from())
	}
}

func TestDeliveryBody_EscapesValues(t *testing.T) {
	body := DeliveryBody("<script>", "Risk Assessment Report", "Risk.csv", "R&D")
	if strings.Contains(body, "<script>") {
		t.Error("schedule name should be escaped")
	}
	if !strings.Contains(body, "R&amp;D") {
		t.Error("brand should be escaped")
	}
}
