package roster

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/kundihq/kundi/core"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")

	nowFunc = time.Now // mockable
)

const peopleCacheKey = "people"

type (
	// ReadGateway pulls the full people listing from the ChMS; pagination is
	// the gateway's business.
	ReadGateway interface {
		ListPeople(ctx context.Context) ([]Person, error)
	}

	// Cache is a best-effort local store for raw listings; a miss is never an
	// error.
	Cache interface {
		GetPeople(key string) ([]Person, bool)
		SetPeople(key string, people []Person)
	}

	// CutoffStore persists a cutoff override across sessions.
	CutoffStore interface {
		LoadCutoff(ctx context.Context) (Cutoff, bool, error)
		SaveCutoff(ctx context.Context, c Cutoff) error
	}

	Service struct {
		gw     ReadGateway
		cache  Cache // optional
		logger core.Logger

		mu       sync.RWMutex
		cutoff   Cutoff
		students []Student
		index    map[string]int
	}
)

func NewService(gw ReadGateway, cache Cache, cutoff Cutoff, logger core.Logger) *Service {
	if cutoff.Month == 0 {
		cutoff = DefaultCutoff
	}
	return &Service{
		gw:     gw,
		cache:  cache,
		cutoff: cutoff,
		logger: logger,
		index:  make(map[string]int),
	}
}

// Refresh rebuilds the roster projection from the cache or, on a miss (or
// when forced), from the remote listing. Records without a parseable
// birthdate or a recorded grade are dropped here and never resurface.
func (svc *Service) Refresh(ctx context.Context, force bool) ([]Student, error) {
	var people []Person
	if !force && svc.cache != nil {
		if cached, ok := svc.cache.GetPeople(peopleCacheKey); ok {
			people = cached
		}
	}
	if people == nil {
		var err error
		if people, err = svc.gw.ListPeople(ctx); err != nil {
			return nil, pkgerrors.Wrap(err, "listing people")
		}
		if svc.cache != nil {
			svc.cache.SetPeople(peopleCacheKey, people)
		}
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	asOf := nowFunc()
	svc.students = svc.students[:0]
	svc.index = make(map[string]int, len(people))
	for _, p := range people {
		s, ok := Project(p, svc.cutoff, asOf)
		if !ok {
			continue
		}
		svc.index[s.ID] = len(svc.students)
		svc.students = append(svc.students, s)
	}
	svc.logger.Info("roster refreshed")
	return svc.snapshot(), nil
}

// Students returns the current projection; empty until the first Refresh.
func (svc *Service) Students() []Student {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.snapshot()
}

func (svc *Service) Get(id string) (Student, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if i, ok := svc.index[id]; ok {
		return svc.students[i], nil
	}
	return Student{}, ErrNotFound
}

// Apply folds a remote-confirmed student state back into the projection.
// This is the edit pipeline's single reconciliation point: derived fields are
// recomputed here so the projection never trusts stale deltas or flags.
func (svc *Service) Apply(s Student) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.rederive(&s)
	if i, ok := svc.index[s.ID]; ok {
		svc.students[i] = s
		return
	}
	svc.index[s.ID] = len(svc.students)
	svc.students = append(svc.students, s)
}

func (svc *Service) Cutoff() Cutoff {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.cutoff
}

// SetCutoff swaps the active cutoff and reprojects every student under it.
func (svc *Service) SetCutoff(c Cutoff) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.cutoff = c
	for i := range svc.students {
		svc.rederive(&svc.students[i])
	}
}

func (svc *Service) Duplicates() []DuplicateGroup {
	return FindDuplicates(svc.Students())
}

// rederive recomputes everything a Student carries that is not authoritative.
// mu must be held.
func (svc *Service) rederive(s *Student) {
	s.Expected = ExpectedGrade(s.Birthdate, nowFunc(), svc.cutoff)
	s.Delta = s.Expected - s.Grade
	s.NameAnomaly = NameAnomaly(s.Name)
	s.EmailAnomaly = EmailAnomaly(s.Email)
	s.PhoneAnomaly = PhoneAnomaly(s.Phone)
	s.AddressAnomaly = AddressAnomaly(s.Address)
}

// snapshot copies the student slice; mu must be held.
func (svc *Service) snapshot() []Student {
	out := make([]Student, len(svc.students))
	copy(out, svc.students)
	return out
}
