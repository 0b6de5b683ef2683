package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authify/backend/internal/audit/domain"
	"authify/backend/internal/audit/repository"
	"authify/backend/internal/server/interceptors"
)

type failingLister struct{}

func (failingLister) ListByAccount(context.Context, string, int32, int32) ([]*domain.AuditLog, error) {
	return nil, errors.New("db down")
}

func get(t *testing.T, h http.Handler, target, accountID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if accountID != "" {
		req = req.WithContext(interceptors.WithIdentity(req.Context(), accountID, "alice@example.com"))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestActivityHandler(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, action := range []string{domain.ActionRegister, domain.ActionLoginSuccess, domain.ActionEmailVerified} {
		require.NoError(t, repo.Create(ctx, &domain.AuditLog{
			ID: action, AccountID: "acc-1", Action: action, Resource: domain.ResourceAccount,
			IP: "203.0.113.9", CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Create(ctx, &domain.AuditLog{ID: "other", AccountID: "acc-2", Action: domain.ActionLogout, CreatedAt: base}))

	h := ActivityHandler(repo)

	rec := get(t, h, "/user/activity", "acc-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 3)
	assert.Equal(t, domain.ActionEmailVerified, body.Data[0].Action)
	assert.Equal(t, "203.0.113.9", body.Data[0].IP)

	rec = get(t, h, "/user/activity?limit=1&offset=1", "acc-1")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, domain.ActionLoginSuccess, body.Data[0].Action)
}

func TestActivityHandler_Errors(t *testing.T) {
	h := ActivityHandler(repository.NewMemoryRepository())
	assert.Equal(t, http.StatusUnauthorized, get(t, h, "/user/activity", "").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/user/activity?limit=-1", "acc-1").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/user/activity?offset=x", "acc-1").Code)
	assert.Equal(t, http.StatusInternalServerError, get(t, ActivityHandler(failingLister{}), "/user/activity", "acc-1").Code)
}

func TestPage(t *testing.T) {
	tests := []struct {
		query         string
		limit, offset int32
	}{
		{"", defaultPageSize, 0},
		{"limit=0", defaultPageSize, 0},
		{"limit=500", maxPageSize, 0},
		{"limit=5&offset=10", 5, 10},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			limit, offset, ok := page(httptest.NewRequest(http.MethodGet, "/user/activity?"+tt.query, nil))
			require.True(t, ok)
			assert.Equal(t, tt.limit, limit)
			assert.Equal(t, tt.offset, offset)
		})
	}
}
