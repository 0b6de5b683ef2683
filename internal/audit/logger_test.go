package audit

import (
	"context"
	"errors"
	"testing"

	"authify/backend/internal/audit/domain"
	"authify/backend/internal/audit/repository"
	"authify/backend/internal/logging"
)

type failingRepo struct{}

func (failingRepo) Create(context.Context, *domain.AuditLog) error {
	return errors.New("db down")
}

func (failingRepo) ListByAccount(context.Context, string, int32, int32) ([]*domain.AuditLog, error) {
	return nil, errors.New("db down")
}

func TestLogger_LogEvent(t *testing.T) {
	repo := repository.NewMemoryRepository()
	logger := NewLogger(repo, func(context.Context) string { return "192.168.1.1" }, logging.Discard())
	ctx := context.Background()

	logger.LogEvent(ctx, "acc-1", domain.ActionEmailVerified, "")

	entries, err := repo.ListByAccount(ctx, "acc-1", 10, 0)
	if err != nil {
		t.Fatalf("ListByAccount: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Action != domain.ActionEmailVerified {
		t.Errorf("action = %q", e.Action)
	}
	if e.Resource != domain.ResourceAccount {
		t.Errorf("resource = %q", e.Resource)
	}
	if e.IP != "192.168.1.1" {
		t.Errorf("ip = %q", e.IP)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Error("ID and CreatedAt should be set")
	}
}

func TestLogger_LogEvent_DefaultIPExtractor(t *testing.T) {
	repo := repository.NewMemoryRepository()
	logger := NewLogger(repo, nil, logging.Discard())
	ctx := WithClientIP(context.Background(), "10.0.0.7")

	logger.LogEvent(ctx, "acc-1", domain.ActionLoginSuccess, "")

	entries, _ := repo.ListByAccount(ctx, "acc-1", 10, 0)
	if len(entries) != 1 || entries[0].IP != "10.0.0.7" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestLogger_LogEvent_RepoErrorIsSwallowed(t *testing.T) {
	logger := NewLogger(failingRepo{}, nil, logging.Discard())
	logger.LogEvent(context.Background(), "acc-1", domain.ActionRegister, "")
}

func TestLogger_NilSafe(t *testing.T) {
	var l *Logger
	l.LogEvent(context.Background(), "acc-1", domain.ActionRegister, "")
	NewLogger(nil, nil, nil).LogEvent(context.Background(), "acc-1", domain.ActionRegister, "")
}

func TestClientIP_Unknown(t *testing.T) {
	if got := ClientIP(context.Background()); got != "unknown" {
		t.Errorf("ClientIP = %q, want unknown", got)
	}
}
