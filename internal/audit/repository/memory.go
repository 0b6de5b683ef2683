package repository

import (
	"context"
	"sort"
	"sync"

	"authify/backend/internal/audit/domain"
)

// MemoryRepository keeps audit logs in memory. Used when no database is configured.
type MemoryRepository struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(_ context.Context, a *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *a
	r.entries = append(r.entries, &c)
	return nil
}

func (r *MemoryRepository) ListByAccount(_ context.Context, accountID string, limit, offset int32) ([]*domain.AuditLog, error) {
	r.mu.Lock()
	var matched []*domain.AuditLog
	for _, e := range r.entries {
		if e.AccountID == accountID {
			c := *e
			matched = append(matched, &c)
		}
	}
	r.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if int(offset) >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && int(limit) < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}
