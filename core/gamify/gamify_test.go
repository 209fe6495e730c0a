package gamify

import (
	"context"
	"errors"
	"testing"
	"time"
)

func stubNow(t *testing.T, at time.Time) {
	t.Helper()
	nowFunc = func() time.Time { return at }
	t.Cleanup(func() { nowFunc = time.Now })
}

func badgeIDs(badges []Badge) []string {
	ids := make([]string, 0, len(badges))
	for _, b := range badges {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestAdvanceFirstFix(t *testing.T) {
	stubNow(t, time.Date(2024, time.October, 1, 12, 0, 0, 0, time.UTC))

	next, badges := Advance(State{})

	if next.TotalFixes != 1 || next.DailyFixes != 1 || next.CurrentStreak != 1 {
		t.Errorf("Advance() = %+v", next)
	}
	if next.LastActiveDate != "2024-10-01" {
		t.Errorf("LastActiveDate = %q", next.LastActiveDate)
	}
	if got := badgeIDs(badges); len(got) != 1 || got[0] != "first-fix" {
		t.Errorf("badges = %v, want [first-fix]", got)
	}
}

func TestAdvanceSameDay(t *testing.T) {
	stubNow(t, time.Date(2024, time.October, 1, 12, 0, 0, 0, time.UTC))

	s := State{TotalFixes: 3, DailyFixes: 3, CurrentStreak: 2, LastActiveDate: "2024-10-01"}
	next, _ := Advance(s)

	if next.DailyFixes != 4 {
		t.Errorf("DailyFixes = %d, want 4", next.DailyFixes)
	}
	if next.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2 (unchanged same day)", next.CurrentStreak)
	}
}

func TestAdvanceConsecutiveDay(t *testing.T) {
	stubNow(t, time.Date(2024, time.October, 2, 8, 0, 0, 0, time.UTC))

	s := State{TotalFixes: 5, DailyFixes: 5, CurrentStreak: 2, LastActiveDate: "2024-10-01"}
	next, badges := Advance(s)

	if next.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", next.CurrentStreak)
	}
	if next.DailyFixes != 1 {
		t.Errorf("DailyFixes = %d, want 1 (new day)", next.DailyFixes)
	}
	if got := badgeIDs(badges); len(got) != 1 || got[0] != "streak-master" {
		t.Errorf("badges = %v, want [streak-master]", got)
	}
}

func TestAdvanceBrokenStreak(t *testing.T) {
	stubNow(t, time.Date(2024, time.October, 5, 8, 0, 0, 0, time.UTC))

	s := State{TotalFixes: 5, DailyFixes: 5, CurrentStreak: 4, LastActiveDate: "2024-10-01"}
	next, _ := Advance(s)

	if next.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1 after a gap", next.CurrentStreak)
	}
}

// A badge unlocks once; re-qualifying later must not re-award it.
func TestAdvanceBadgesUnlockOnce(t *testing.T) {
	stubNow(t, time.Date(2024, time.October, 1, 12, 0, 0, 0, time.UTC))

	next, badges := Advance(State{})
	if len(badges) != 1 {
		t.Fatalf("badges = %v", badgeIDs(badges))
	}

	_, badges = Advance(next)
	if len(badges) != 0 {
		t.Errorf("badges on second fix = %v, want none", badgeIDs(badges))
	}
}

func TestAdvanceDailyGrind(t *testing.T) {
	stubNow(t, time.Date(2024, time.October, 1, 12, 0, 0, 0, time.UTC))

	s := State{
		TotalFixes:     9,
		DailyFixes:     9,
		CurrentStreak:  1,
		LastActiveDate: "2024-10-01",
		UnlockedBadges: []UnlockedBadge{{ID: "first-fix"}},
	}
	_, badges := Advance(s)
	if got := badgeIDs(badges); len(got) != 1 || got[0] != "daily-grind" {
		t.Errorf("badges = %v, want [daily-grind]", got)
	}
}

func TestAdvancePure(t *testing.T) {
	stubNow(t, time.Date(2024, time.October, 1, 12, 0, 0, 0, time.UTC))

	s := State{TotalFixes: 1, LastActiveDate: "2024-10-01"}
	_, _ = Advance(s)
	if s.TotalFixes != 1 || len(s.UnlockedBadges) != 0 {
		t.Errorf("input state mutated: %+v", s)
	}
}

type stubRepo struct {
	state   State
	loadErr error
	saveErr error
	saves   int
}

func (r *stubRepo) Load(ctx context.Context) (State, error) { return r.state, r.loadErr }

func (r *stubRepo) Save(ctx context.Context, s State) error {
	r.saves++
	r.state = s
	return r.saveErr
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

func TestTracker(t *testing.T) {
	stubNow(t, time.Date(2024, time.October, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	repo := &stubRepo{state: State{TotalFixes: 7, DailyFixes: 2, CurrentStreak: 1, LastActiveDate: "2024-10-01"}}
	tracker := NewTracker(ctx, repo, nopLogger{})

	if got := tracker.State().TotalFixes; got != 7 {
		t.Fatalf("State().TotalFixes = %d, want 7 loaded from repo", got)
	}

	before := tracker.State()
	next, _ := tracker.Advance()
	if next.TotalFixes != 8 {
		t.Errorf("Advance().TotalFixes = %d, want 8", next.TotalFixes)
	}
	if repo.saves != 1 {
		t.Errorf("repo saves = %d, want 1", repo.saves)
	}

	tracker.Restore(before)
	if got := tracker.State().TotalFixes; got != 7 {
		t.Errorf("State().TotalFixes = %d after Restore, want 7", got)
	}
	if repo.saves != 2 {
		t.Errorf("repo saves = %d, want 2", repo.saves)
	}
}

// A broken repo degrades the tracker to in-memory, it never fails an edit.
func TestTrackerRepoFailures(t *testing.T) {
	stubNow(t, time.Date(2024, time.October, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	repo := &stubRepo{loadErr: errors.New("db down"), saveErr: errors.New("db down")}
	tracker := NewTracker(ctx, repo, nopLogger{})

	if got := tracker.State().TotalFixes; got != 0 {
		t.Fatalf("State().TotalFixes = %d, want 0 on failed load", got)
	}
	next, _ := tracker.Advance()
	if next.TotalFixes != 1 {
		t.Errorf("Advance().TotalFixes = %d, want 1 despite failed save", next.TotalFixes)
	}
}
