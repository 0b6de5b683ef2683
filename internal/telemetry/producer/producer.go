// Package producer publishes account telemetry events to Kafka for the Loki worker.
package producer

import (
	"context"

	"authify/backend/internal/telemetry/domain"
)

// Producer emits telemetry events. Callers use it best-effort: log and ignore errors.
type Producer interface {
	Emit(ctx context.Context, event *domain.Event) error
	// Close releases resources. Safe to call if already closed.
	Close() error
}
