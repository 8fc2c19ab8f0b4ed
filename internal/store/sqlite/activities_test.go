package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/quotedeck/quotedeck-server/internal/domain"
	"github.com/quotedeck/quotedeck-server/internal/normalize"
)

func TestCreateFollow_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "usr-aaaaaaaaaaaaaaaaaaaaa", "1001")
	bob := createTestUser(t, s, "usr-bbbbbbbbbbbbbbbbbbbbb", "1002")

	f := &domain.Follow{FollowerID: alice.ID, FolloweeID: bob.ID}
	if err := s.CreateFollow(ctx, f); err != nil {
		t.Fatalf("CreateFollow: %v", err)
	}
	if err := s.CreateFollow(ctx, f); err != nil {
		t.Fatalf("second CreateFollow: %v", err)
	}

	n, err := s.CountFollowsCreated(ctx, alice.ID)
	if err != nil {
		t.Fatalf("CountFollowsCreated: %v", err)
	}
	if n != 1 {
		t.Errorf("follow count: got %d, want 1", n)
	}
}

func TestHasContentInRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "usr-aaaaaaaaaaaaaaaaaaaaa", "1001")

	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	// Photo on the day, no quote.
	if err := s.CreatePhoto(ctx, &domain.PhotoPost{
		ID:        "pht-aaaaaaaaaaaaaaaaaaaaa",
		UserID:    user.ID,
		Published: true,
		CreatedAt: day.Add(9 * time.Hour),
	}); err != nil {
		t.Fatalf("CreatePhoto: %v", err)
	}

	ok, err := s.HasContentInRange(ctx, user.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("HasContentInRange: %v", err)
	}
	if !ok {
		t.Error("expected photo to count as content")
	}

	// Quote on the next day.
	next := day.AddDate(0, 0, 1)
	if err := s.CreateQuote(ctx, &domain.QuotePost{
		ID:            "qte-aaaaaaaaaaaaaaaaaaaaa",
		UserID:        user.ID,
		Text:          "Carpe diem",
		Author:        "Horace",
		NormalizedKey: normalize.Key("Carpe diem", "Horace"),
		Published:     true,
		CreatedAt:     next.Add(20 * time.Hour),
	}); err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	ok, err = s.HasContentInRange(ctx, user.ID, next, next.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("HasContentInRange: %v", err)
	}
	if !ok {
		t.Error("expected quote to count as content")
	}

	// Empty day in between other users' activity.
	later := next.AddDate(0, 0, 1)
	ok, err = s.HasContentInRange(ctx, user.ID, later, later.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("HasContentInRange: %v", err)
	}
	if ok {
		t.Error("expected no content on empty day")
	}
}

func TestHasCheckInInRange_DayBoundary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "usr-aaaaaaaaaaaaaaaaaaaaa", "1001")

	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	// One check-in at the very start of the day, one just before midnight.
	for _, at := range []time.Time{day, day.Add(24*time.Hour - time.Millisecond)} {
		if err := s.CreateCheckIn(ctx, &domain.CheckIn{
			UserID:    user.ID,
			Type:      "app_open",
			CreatedAt: at,
		}); err != nil {
			t.Fatalf("CreateCheckIn: %v", err)
		}
	}

	ok, err := s.HasCheckInInRange(ctx, user.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("HasCheckInInRange: %v", err)
	}
	if !ok {
		t.Error("expected check-ins inside the day window")
	}

	// Neither boundary event leaks into the neighboring days.
	prev := day.AddDate(0, 0, -1)
	ok, err = s.HasCheckInInRange(ctx, user.ID, prev, day)
	if err != nil {
		t.Fatalf("HasCheckInInRange: %v", err)
	}
	if ok {
		t.Error("midnight check-in leaked into previous day")
	}

	next := day.AddDate(0, 0, 1)
	ok, err = s.HasCheckInInRange(ctx, user.ID, next, next.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("HasCheckInInRange: %v", err)
	}
	if ok {
		t.Error("pre-midnight check-in leaked into next day")
	}
}

func TestAchievements(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "usr-aaaaaaaaaaaaaaaaaaaaa", "1001")

	unlocked := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := s.AddAchievement(ctx, user.ID, "badge:curator", unlocked); err != nil {
		t.Fatalf("AddAchievement: %v", err)
	}

	// Re-adding keeps the original unlock time.
	if err := s.AddAchievement(ctx, user.ID, "badge:curator", unlocked.Add(time.Hour)); err != nil {
		t.Fatalf("second AddAchievement: %v", err)
	}

	ok, err := s.HasAchievement(ctx, user.ID, "badge:curator")
	if err != nil {
		t.Fatalf("HasAchievement: %v", err)
	}
	if !ok {
		t.Error("expected achievement to exist")
	}

	list, err := s.ListAchievements(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListAchievements: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 achievement, got %d", len(list))
	}
	if !list[0].UnlockedAt.Equal(unlocked) {
		t.Errorf("UnlockedAt: got %v, want %v", list[0].UnlockedAt, unlocked)
	}

	ok, err = s.HasAchievement(ctx, user.ID, "badge:other")
	if err != nil {
		t.Fatalf("HasAchievement: %v", err)
	}
	if ok {
		t.Error("unexpected achievement")
	}
}
