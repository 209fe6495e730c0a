package inmemdb

import (
	"context"
	"sync"

	"github.com/kundihq/kundi/core/gamify"
	"github.com/kundihq/kundi/core/roster"
)

type settingsRepository struct {
	mutex     sync.RWMutex
	state     gamify.State
	cutoff    roster.Cutoff
	hasCutoff bool
}

var (
	_ gamify.Repository  = (*settingsRepository)(nil)
	_ roster.CutoffStore = (*settingsRepository)(nil)
)

func NewSettingsRepository() *settingsRepository {
	return &settingsRepository{}
}

func (repo *settingsRepository) Load(ctx context.Context) (gamify.State, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	return repo.state, nil
}

func (repo *settingsRepository) Save(ctx context.Context, s gamify.State) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	repo.state = s
	return nil
}

func (repo *settingsRepository) LoadCutoff(ctx context.Context) (roster.Cutoff, bool, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	return repo.cutoff, repo.hasCutoff, nil
}

func (repo *settingsRepository) SaveCutoff(ctx context.Context, c roster.Cutoff) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	repo.cutoff = c
	repo.hasCutoff = true
	return nil
}
