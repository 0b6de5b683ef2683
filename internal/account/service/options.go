package service

import (
	"log/slog"
	"time"

	"authify/backend/internal/audit"
	"authify/backend/internal/metrics"
	"authify/backend/internal/telemetry"
)

// Option configures optional AccountService collaborators.
type Option func(*AccountService)

// WithAuditLogger records account events to the audit log.
func WithAuditLogger(a audit.AuditLogger) Option {
	return func(s *AccountService) { s.audit = a }
}

// WithEventEmitter publishes account events (OTel logs, Kafka).
func WithEventEmitter(e telemetry.EventEmitter) Option {
	return func(s *AccountService) { s.emitter = e }
}

// WithMetrics counts OTP issues and consumptions.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *AccountService) { s.metrics = m }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *AccountService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used for expiry checks and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *AccountService) {
		if now != nil {
			s.nowF = now
		}
	}
}
