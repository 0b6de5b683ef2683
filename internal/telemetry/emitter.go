package telemetry

import (
	"context"
	"errors"

	"authify/backend/internal/telemetry/domain"
)

// EventEmitter emits telemetry events (OTel logs, Kafka). Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *domain.Event) error
}

// Multi sends each event to every non-nil emitter and joins their errors.
func Multi(emitters ...EventEmitter) EventEmitter {
	var out multi
	for _, e := range emitters {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

type multi []EventEmitter

func (m multi) Emit(ctx context.Context, event *domain.Event) error {
	var errs []error
	for _, e := range m {
		if err := e.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
