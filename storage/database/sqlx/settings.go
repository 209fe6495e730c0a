package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kundihq/kundi/core/gamify"
	"github.com/kundihq/kundi/core/roster"
)

const (
	gamifyKey = "gamification"
	cutoffKey = "cutoff"
)

// settingsRepository is a small key/value store over the app_setting table.
// It backs both the gamification state and the cutoff override.
type settingsRepository struct {
	db *sqlx.DB
}

var (
	_ gamify.Repository  = (*settingsRepository)(nil)
	_ roster.CutoffStore = (*settingsRepository)(nil)
)

func NewSettingsRepository(db *sqlx.DB) *settingsRepository {
	return &settingsRepository{db: db}
}

func (repo settingsRepository) get(ctx context.Context, key string, v interface{}) (bool, error) {
	var raw []byte
	err := repo.db.GetContext(ctx, &raw, `SELECT value FROM app_setting WHERE key = $1`, key)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "selecting setting "+key)
	}
	if err = json.Unmarshal(raw, v); err != nil {
		return false, errors.Wrap(err, "decoding setting "+key)
	}
	return true, nil
}

func (repo settingsRepository) set(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding setting "+key)
	}
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO app_setting (key, value, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = $3`,
		key, raw, time.Now().UTC(),
	)
	return errors.Wrap(err, "upserting setting "+key)
}

func (repo settingsRepository) Load(ctx context.Context) (gamify.State, error) {
	var state gamify.State
	_, err := repo.get(ctx, gamifyKey, &state)
	return state, err
}

func (repo settingsRepository) Save(ctx context.Context, s gamify.State) error {
	return repo.set(ctx, gamifyKey, s)
}

func (repo settingsRepository) LoadCutoff(ctx context.Context) (roster.Cutoff, bool, error) {
	var c roster.Cutoff
	ok, err := repo.get(ctx, cutoffKey, &c)
	return c, ok, err
}

func (repo settingsRepository) SaveCutoff(ctx context.Context, c roster.Cutoff) error {
	return repo.set(ctx, cutoffKey, c)
}
