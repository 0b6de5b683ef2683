// Package handler serves the signed-in account's audit trail.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"authify/backend/internal/audit/domain"
	"authify/backend/internal/http/response"
	"authify/backend/internal/server/interceptors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Lister reads audit entries for one account, newest first.
type Lister interface {
	ListByAccount(ctx context.Context, accountID string, limit, offset int32) ([]*domain.AuditLog, error)
}

type entry struct {
	Action    string    `json:"action"`
	IP        string    `json:"ip,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityHandler serves GET /user/activity?limit=&offset= for the identity in the request context.
func ActivityHandler(repo Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := interceptors.GetAccountID(r.Context())
		if !ok {
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid session")
			return
		}
		limit, offset, ok := page(r)
		if !ok {
			response.Error(w, r, http.StatusBadRequest, "INVALID_INPUT", "limit and offset must be non-negative integers")
			return
		}
		logs, err := repo.ListByAccount(r.Context(), accountID, limit, offset)
		if err != nil {
			slog.ErrorContext(r.Context(), "audit: list failed", "account_id", accountID, "error", err)
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error")
			return
		}
		out := make([]entry, 0, len(logs))
		for _, l := range logs {
			out = append(out, entry{Action: l.Action, IP: l.IP, Metadata: l.Metadata, CreatedAt: l.CreatedAt})
		}
		response.JSON(w, r, http.StatusOK, out)
	}
}

func page(r *http.Request) (limit, offset int32, ok bool) {
	limit, offset = defaultPageSize, 0
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		limit = int32(min(n, maxPageSize))
		if limit == 0 {
			limit = defaultPageSize
		}
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		offset = int32(n)
	}
	return limit, offset, true
}
