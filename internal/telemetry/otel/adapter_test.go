package otel

import (
	"context"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"authify/backend/internal/telemetry/domain"
)

type recordCapture struct {
	rec otellog.Record
}

func (r *recordCapture) Emit(_ context.Context, rec otellog.Record) {
	r.rec = rec
}

func attrsOf(rec otellog.Record) map[string]string {
	attrs := make(map[string]string)
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	return attrs
}

func TestNewEventEmitter_NilProvider_ReturnsNoop(t *testing.T) {
	em := NewEventEmitter(nil)
	if err := em.Emit(context.Background(), &domain.Event{EventType: "x"}); err != nil {
		t.Errorf("noop Emit: %v", err)
	}
}

func TestNewEventEmitter_WithProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	em := NewEventEmitter(provider)
	if err := em.Emit(context.Background(), nil); err != nil {
		t.Errorf("Emit(nil): %v", err)
	}
	if err := em.Emit(context.Background(), domain.NewEvent("acc-1", domain.EventLoginSucceeded, "auth_service", nil)); err != nil {
		t.Errorf("Emit: %v", err)
	}
}

func TestEmit_AttributeAndBodyMapping(t *testing.T) {
	cap := &recordCapture{}
	em := NewEventEmitterWithLogger(cap)
	ts := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	event := &domain.Event{
		AccountID: "acc-1",
		EventType: domain.EventOTPConsumed,
		Source:    "account_service",
		Metadata:  []byte(`{"purpose":"verification"}`),
		CreatedAt: ts,
	}
	if err := em.Emit(context.Background(), event); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if got := cap.rec.Body().AsBytes(); string(got) != `{"purpose":"verification"}` {
		t.Errorf("body = %q", got)
	}
	if !cap.rec.Timestamp().Equal(ts) {
		t.Errorf("timestamp = %v, want %v", cap.rec.Timestamp(), ts)
	}
	attrs := attrsOf(cap.rec)
	want := map[string]string{"account_id": "acc-1", "event_type": domain.EventOTPConsumed, "source": "account_service"}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attr %q = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestEmit_ZeroTimestamp_SetsCurrentTime(t *testing.T) {
	cap := &recordCapture{}
	em := NewEventEmitterWithLogger(cap)
	before := time.Now().UTC()
	if err := em.Emit(context.Background(), &domain.Event{EventType: "x"}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	after := time.Now().UTC()
	ts := cap.rec.Timestamp()
	if ts.Before(before) || ts.After(after) {
		t.Errorf("timestamp = %v, should be between %v and %v", ts, before, after)
	}
	if !cap.rec.Body().Empty() {
		t.Error("body should be empty without metadata")
	}
	if _, ok := attrsOf(cap.rec)["account_id"]; ok {
		t.Error("account_id should be absent for anonymous events")
	}
}
