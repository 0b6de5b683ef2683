package service

import (
	"log/slog"
	"time"

	"authify/backend/internal/audit"
	"authify/backend/internal/metrics"
	"authify/backend/internal/telemetry"
)

// Option configures optional AuthService collaborators.
type Option func(*AuthService)

// WithAuditLogger records registrations, logins and logouts to the audit log.
func WithAuditLogger(a audit.AuditLogger) Option {
	return func(s *AuthService) { s.audit = a }
}

// WithEventEmitter publishes account events.
func WithEventEmitter(e telemetry.EventEmitter) Option {
	return func(s *AuthService) { s.emitter = e }
}

// WithMetrics counts registrations and logins.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *AuthService) { s.metrics = m }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *AuthService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source for account timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) {
		if now != nil {
			s.nowF = now
		}
	}
}
