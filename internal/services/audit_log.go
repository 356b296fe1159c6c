package services

import (
	"context"
	"time"

	"github.com/huangang/compliancewatch/internal/models"
	"github.com/huangang/compliancewatch/pkg/logger"
)

const (
	ActorSystem    = "system"
	ActorAnonymous = "anonymous"
)

// AuditSink stores audit trail entries.
type AuditSink interface {
	AppendAuditLog(ctx context.Context, entry *models.AuditLog) error
}

// AuditLogger appends user and system actions to the audit trail that the
// audit_trail report reads. A nil AuditLogger discards everything.
type AuditLogger struct {
	sink AuditSink
	now  func() time.Time
}

func NewAuditLogger(sink AuditSink) *AuditLogger {
	return &AuditLogger{sink: sink, now: time.Now}
}

// Record never fails the caller; write errors are only logged.
func (a *AuditLogger) Record(ctx context.Context, user, action, details string) {
	if a == nil || a.sink == nil {
		return
	}
	if user == "" {
		user = ActorAnonymous
	}

	entry := &models.AuditLog{
		Timestamp: a.now(),
		User:      user,
		Action:    action,
		Details:   details,
	}
	if err := a.sink.AppendAuditLog(ctx, entry); err != nil {
		logger.Warn().Err(err).Str("action", action).Msg("[Audit] failed to append audit entry")
	}
}
