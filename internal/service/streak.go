package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/quotedeck/quotedeck-server/internal/errors"
	"github.com/quotedeck/quotedeck-server/internal/store"
)

// maxStreakLookbackDays bounds the backward walk so a pathological history
// cannot turn one streak request into thousands of range queries. A year
// plus a leap day is far beyond any real streak.
const maxStreakLookbackDays = 366

// StreakService computes consecutive-day activity streaks. Days are UTC
// calendar days; an activity on any source counts the day.
type StreakService struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewStreakService creates a new streak service.
func NewStreakService(store store.Store, logger *slog.Logger) *StreakService {
	return &StreakService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Compute returns the user's current streak in days: consecutive UTC
// calendar days with activity, ending with and including today. A user
// active today but not yesterday has a streak of 1; a user inactive today
// has a streak of 0 regardless of history.
func (s *StreakService) Compute(ctx context.Context, userID string) (int, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)

	streak := 0
	for offset := 0; offset < maxStreakLookbackDays; offset++ {
		dayStart := today.AddDate(0, 0, -offset)
		dayEnd := dayStart.AddDate(0, 0, 1)

		active, err := s.activeOn(ctx, userID, dayStart, dayEnd)
		if err != nil {
			return 0, errors.Wrap(err, errors.CodeInternal, "check streak day")
		}
		if !active {
			break
		}
		streak++
	}
	return streak, nil
}

// activeOn reports whether the user did anything in [start, end). Sources
// are checked cheapest-first and short-circuit on the first hit.
func (s *StreakService) activeOn(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	checks := []func(context.Context, string, time.Time, time.Time) (bool, error){
		s.store.HasCheckInInRange,
		s.store.HasFavoriteInRange,
		s.store.HasFollowInRange,
		s.store.HasContentInRange,
	}
	for _, check := range checks {
		ok, err := check(ctx, userID, start, end)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
