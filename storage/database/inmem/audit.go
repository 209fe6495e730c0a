// Package inmemdb provides in-memory repositories for tests and local runs
// without a database.
package inmemdb

import (
	"context"
	"sync"

	"github.com/kundihq/kundi/core/editing"
)

type auditRepository struct {
	mutex   sync.RWMutex
	entries []editing.AuditEntry
}

var _ editing.AuditLog = (*auditRepository)(nil)

func NewAuditRepository() *auditRepository {
	return &auditRepository{}
}

func (repo *auditRepository) LogEdit(ctx context.Context, e editing.AuditEntry) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	repo.entries = append(repo.entries, e)
	return nil
}

func (repo *auditRepository) RecentEdits(ctx context.Context, limit int) ([]editing.AuditEntry, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	n := len(repo.entries)
	if limit > n {
		limit = n
	}
	entries := make([]editing.AuditEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		entries = append(entries, repo.entries[i])
	}
	return entries, nil
}
