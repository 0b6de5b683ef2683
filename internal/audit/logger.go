// Package audit records account lifecycle events (registration, logins, OTP issue and
// consumption, password resets) to the audit_logs table.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"authify/backend/internal/audit/domain"
	auditrepo "authify/backend/internal/audit/repository"
)

// IPExtractor returns the client IP for the request in ctx.
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event. LogEvent is best-effort: failures are logged and do
// not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, accountID, action, metadata string)
}

// Logger implements AuditLogger on top of an audit repository.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
	log         *slog.Logger
	nowF        func() time.Time
}

// NewLogger returns a Logger persisting to repo. ipExtractor may be nil, in which case ClientIP is used.
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor, log *slog.Logger) *Logger {
	if ipExtractor == nil {
		ipExtractor = ClientIP
	}
	if log == nil {
		log = slog.Default()
	}
	return &Logger{repo: repo, ipExtractor: ipExtractor, log: log, nowF: func() time.Time { return time.Now().UTC() }}
}

// LogEvent writes one entry for the account resource.
func (l *Logger) LogEvent(ctx context.Context, accountID, action, metadata string) {
	if l == nil || l.repo == nil {
		return
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Action:    action,
		Resource:  domain.ResourceAccount,
		IP:        l.ipExtractor(ctx),
		Metadata:  metadata,
		CreatedAt: l.nowF(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.log.WarnContext(ctx, "audit: failed to log event", "action", action, "error", err)
	}
}
