package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestCheck_NoDeps(t *testing.T) {
	srv := NewServer(nil)
	resp, err := srv.Check(context.Background(), &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", resp.Status)
	}
}

func TestCheck_FailingDep(t *testing.T) {
	srv := NewServer(map[string]Pinger{
		"postgres": PingerFunc(func(context.Context) error { return nil }),
		"redis":    PingerFunc(func(context.Context) error { return errors.New("connection refused") }),
		"skipped":  nil,
	})
	resp, err := srv.Check(context.Background(), &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.Status != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("status = %v, want NOT_SERVING", resp.Status)
	}
}

func TestServeHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	down := NewServer(map[string]Pinger{"postgres": PingerFunc(func(context.Context) error { return errors.New("down") })})
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "postgres") {
		t.Errorf("body %q should name the failing dependency", rec.Body.String())
	}
}
