// Package gamify tracks fix streaks and badges for the data steward.
// The counters are cosmetic but they participate in the edit pipeline's
// rollback: an undone staged fix must also take its counter bump back.
package gamify

import "time"

const day = 24 * time.Hour

var nowFunc = time.Now // mockable

type (
	State struct {
		TotalFixes     int             `json:"total_fixes"`
		DailyFixes     int             `json:"daily_fixes"`
		CurrentStreak  int             `json:"current_streak"`
		LastActiveDate string          `json:"last_active_date"` // YYYY-MM-DD
		UnlockedBadges []UnlockedBadge `json:"unlocked_badges"`
	}

	UnlockedBadge struct {
		ID string    `json:"id"`
		At time.Time `json:"at"`
	}

	Badge struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		Condition   func(State) bool `json:"-"`
	}
)

var Badges = []Badge{
	{
		ID:          "first-fix",
		Name:        "First Fix",
		Description: "You fixed your first record!",
		Icon:        "🎉",
		Condition:   func(s State) bool { return s.TotalFixes >= 1 },
	},
	{
		ID:          "streak-master",
		Name:        "Streak Master",
		Description: "You reached a 3-day streak!",
		Icon:        "🔥",
		Condition:   func(s State) bool { return s.CurrentStreak >= 3 },
	},
	{
		ID:          "archaeologist",
		Name:        "The Archaeologist",
		Description: "You have fixed 50 records.",
		Icon:        "🏺",
		Condition:   func(s State) bool { return s.TotalFixes >= 50 },
	},
	{
		ID:          "daily-grind",
		Name:        "Daily Grind",
		Description: "You fixed 10 records in one day!",
		Icon:        "☕",
		Condition:   func(s State) bool { return s.DailyFixes >= 10 },
	},
}

// Advance records one completed fix against the given state and returns the
// next state plus any badges that unlock with it. Pure: the input state is
// not mutated.
func Advance(s State) (State, []Badge) {
	now := nowFunc()
	today := now.Format("2006-01-02")
	yesterday := now.Add(-day).Format("2006-01-02")

	next := State{
		LastActiveDate: today,
		TotalFixes:     s.TotalFixes + 1,
		CurrentStreak:  s.CurrentStreak,
	}

	switch s.LastActiveDate {
	case today:
		next.DailyFixes = s.DailyFixes + 1
	case yesterday:
		next.CurrentStreak = s.CurrentStreak + 1
		next.DailyFixes = 1
	default: // broken streak, or first fix ever
		next.CurrentStreak = 1
		next.DailyFixes = 1
	}

	unlocked := make(map[string]bool, len(s.UnlockedBadges))
	next.UnlockedBadges = append(next.UnlockedBadges, s.UnlockedBadges...)
	for _, b := range s.UnlockedBadges {
		unlocked[b.ID] = true
	}

	var newBadges []Badge
	for _, badge := range Badges {
		if !unlocked[badge.ID] && badge.Condition(next) {
			newBadges = append(newBadges, badge)
			next.UnlockedBadges = append(next.UnlockedBadges, UnlockedBadge{ID: badge.ID, At: now})
		}
	}
	return next, newBadges
}
