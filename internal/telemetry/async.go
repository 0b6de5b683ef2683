package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"authify/backend/internal/telemetry/domain"
)

// emitTimeout bounds a single async emit.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after the servers stop before shutting down the
// exporters, so in-flight async emits can finish. Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

var inflight sync.WaitGroup

// EmitAsync runs Emit in a goroutine with its own timeout so the caller is not blocked and
// request cancellation does not abort the emit. emitter and event may be nil.
func EmitAsync(emitter EventEmitter, event *domain.Event) {
	if emitter == nil || event == nil {
		return
	}
	inflight.Add(1)
	go func() {
		defer inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := emitter.Emit(ctx, event); err != nil {
			slog.Warn("telemetry: async emit failed", "event_type", event.EventType, "error", err)
		}
	}()
}

// Drain waits until every pending EmitAsync call has returned or ctx is done.
func Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
