package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quotedeck/quotedeck-server/internal/domain"
	"github.com/quotedeck/quotedeck-server/internal/normalize"
	"github.com/quotedeck/quotedeck-server/internal/store"
)

func addFavorite(t *testing.T, s *Store, userID, text, author string) *domain.Favorite {
	t.Helper()
	fav, err := s.UpsertFavorite(context.Background(), &domain.Favorite{
		UserID:        userID,
		NormalizedKey: normalize.Key(text, author),
		Text:          text,
		Author:        author,
	})
	if err != nil {
		t.Fatalf("UpsertFavorite: %v", err)
	}
	return fav
}

func TestUpsertFavorite_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "usr-aaaaaaaaaaaaaaaaaaaaa", "1001")

	first := addFavorite(t, s, user.ID, "Life is hard.", "Unknown")

	// Re-like with different typography: same normalized key, single row.
	second := addFavorite(t, s, user.ID, "life is hard", "unknown")

	if first.NormalizedKey != second.NormalizedKey {
		t.Fatalf("keys differ: %q vs %q", first.NormalizedKey, second.NormalizedKey)
	}

	favs, err := s.ListFavoritesForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListFavoritesForUser: %v", err)
	}
	if len(favs) != 1 {
		t.Fatalf("expected 1 favorite, got %d", len(favs))
	}

	// Display text refreshed to the latest upsert, created_at preserved.
	if favs[0].Text != "life is hard" {
		t.Errorf("Text: got %q, want %q", favs[0].Text, "life is hard")
	}
	if !favs[0].CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on re-upsert: %v vs %v", favs[0].CreatedAt, first.CreatedAt)
	}
}

func TestDeleteFavorite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "usr-aaaaaaaaaaaaaaaaaaaaa", "1001")

	fav := addFavorite(t, s, user.ID, "To be or not to be", "Shakespeare")

	deleted, err := s.DeleteFavorite(ctx, user.ID, fav.NormalizedKey)
	if err != nil {
		t.Fatalf("DeleteFavorite: %v", err)
	}
	if deleted.Text != "To be or not to be" {
		t.Errorf("deleted Text: got %q", deleted.Text)
	}

	if _, err := s.GetFavorite(ctx, user.ID, fav.NormalizedKey); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteFavorite_Absent(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "usr-aaaaaaaaaaaaaaaaaaaaa", "1001")

	_, err := s.DeleteFavorite(context.Background(), user.ID, normalize.Key("never liked", ""))

	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *store.Error, got %T: %v", err, err)
	}
	if storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("expected status %d, got %d", store.ErrNotFound.Code, storeErr.Code)
	}
}

func TestCountUniqueLikersForKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "usr-aaaaaaaaaaaaaaaaaaaaa", "1001")
	bob := createTestUser(t, s, "usr-bbbbbbbbbbbbbbbbbbbbb", "1002")
	carol := createTestUser(t, s, "usr-ccccccccccccccccccccc", "1003")

	keyShared := normalize.Key("Life is hard.", "Unknown")
	keySolo := normalize.Key("Carpe diem", "Horace")

	addFavorite(t, s, alice.ID, "Life is hard.", "Unknown")
	addFavorite(t, s, bob.ID, "life is hard", "unknown") // same key, distinct liker
	addFavorite(t, s, carol.ID, "Carpe diem", "Horace")

	counts, err := s.CountUniqueLikersForKeys(ctx, []string{keyShared, keySolo, normalize.Key("unliked", "")})
	if err != nil {
		t.Fatalf("CountUniqueLikersForKeys: %v", err)
	}

	if counts[keyShared] != 2 {
		t.Errorf("shared key likers: got %d, want 2", counts[keyShared])
	}
	if counts[keySolo] != 1 {
		t.Errorf("solo key likers: got %d, want 1", counts[keySolo])
	}
	if _, ok := counts[normalize.Key("unliked", "")]; ok {
		t.Error("unliked key should be absent from result map")
	}
}

func TestCountUniqueLikersForKeys_Empty(t *testing.T) {
	s := newTestStore(t)

	counts, err := s.CountUniqueLikersForKeys(context.Background(), nil)
	if err != nil {
		t.Fatalf("CountUniqueLikersForKeys: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("expected empty map, got %v", counts)
	}
}

func TestCountLikesGivenToOthers_ExcludesSelfLikes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "usr-aaaaaaaaaaaaaaaaaaaaa", "1001")
	bob := createTestUser(t, s, "usr-bbbbbbbbbbbbbbbbbbbbb", "1002")

	// Alice posts a quote and likes it herself.
	ownText, ownAuthor := "My own wisdom", "Alice"
	if err := s.CreateQuote(ctx, &domain.QuotePost{
		ID: "qte-aaaaaaaaaaaaaaaaaaaaa", UserID: alice.ID,
		Text: ownText, Author: ownAuthor,
		NormalizedKey: normalize.Key(ownText, ownAuthor), Published: true,
	}); err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	addFavorite(t, s, alice.ID, ownText, ownAuthor)

	// Bob posts a quote; Alice likes it.
	otherText, otherAuthor := "Borrowed wisdom", "Bob"
	if err := s.CreateQuote(ctx, &domain.QuotePost{
		ID: "qte-bbbbbbbbbbbbbbbbbbbbb", UserID: bob.ID,
		Text: otherText, Author: otherAuthor,
		NormalizedKey: normalize.Key(otherText, otherAuthor), Published: true,
	}); err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	addFavorite(t, s, alice.ID, otherText, otherAuthor)

	n, err := s.CountLikesGivenToOthers(ctx, alice.ID)
	if err != nil {
		t.Fatalf("CountLikesGivenToOthers: %v", err)
	}
	if n != 1 {
		t.Errorf("likes to others: got %d, want 1 (self-like must not count)", n)
	}
}

func TestHasFavoriteInRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "usr-aaaaaaaaaaaaaaaaaaaaa", "1001")

	liked := time.Date(2026, 8, 30, 15, 30, 0, 0, time.UTC)
	_, err := s.UpsertFavorite(ctx, &domain.Favorite{
		UserID:        user.ID,
		NormalizedKey: normalize.Key("Carpe diem", "Horace"),
		Text:          "Carpe diem",
		Author:        "Horace",
		CreatedAt:     liked,
	})
	if err != nil {
		t.Fatalf("UpsertFavorite: %v", err)
	}

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	ok, err := s.HasFavoriteInRange(ctx, user.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("HasFavoriteInRange: %v", err)
	}
	if !ok {
		t.Error("expected activity on the liked day")
	}

	next := day.AddDate(0, 0, 1)
	ok, err = s.HasFavoriteInRange(ctx, user.ID, next, next.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("HasFavoriteInRange: %v", err)
	}
	if ok {
		t.Error("expected no activity on the following day")
	}
}
