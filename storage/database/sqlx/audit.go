package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kundihq/kundi/core/editing"
)

type auditRepository struct {
	db *sqlx.DB
}

var _ editing.AuditLog = (*auditRepository)(nil)

func NewAuditRepository(db *sqlx.DB) *auditRepository {
	return &auditRepository{db: db}
}

type auditRow struct {
	ID          string    `db:"id"`
	PersonID    string    `db:"person_id"`
	Description string    `db:"description"`
	Attrs       []byte    `db:"attrs"`
	CreatedAt   time.Time `db:"created_at"`
}

func (repo auditRepository) LogEdit(ctx context.Context, e editing.AuditEntry) error {
	attrs, err := json.Marshal(e.Attrs)
	if err != nil {
		return errors.Wrap(err, "encoding edit attrs")
	}
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO edit_audit (id, person_id, description, attrs, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.PersonID, e.Description, attrs, e.CreatedAt,
	)
	return errors.Wrap(err, "inserting edit audit row")
}

// RecentEdits returns up to limit journal entries, newest first.
func (repo auditRepository) RecentEdits(ctx context.Context, limit int) ([]editing.AuditEntry, error) {
	var rows []auditRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, person_id, description, attrs, created_at
		 FROM edit_audit ORDER BY created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "selecting edit audit rows")
	}

	entries := make([]editing.AuditEntry, 0, len(rows))
	for _, row := range rows {
		e := editing.AuditEntry{
			ID:          row.ID,
			PersonID:    row.PersonID,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
		}
		if err = json.Unmarshal(row.Attrs, &e.Attrs); err != nil {
			return nil, errors.Wrap(err, "decoding edit attrs")
		}
		entries = append(entries, e)
	}
	return entries, nil
}
