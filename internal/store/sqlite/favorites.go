package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/quotedeck/quotedeck-server/internal/domain"
	"github.com/quotedeck/quotedeck-server/internal/store"
)

// UpsertFavorite records a like, keyed by (user_id, normalized_key).
//
// Re-liking the same normalized quote is a no-op that refreshes the display
// text/author (the canonical rendering may have changed) but keeps the
// original created_at. Concurrent double-inserts are resolved by the primary
// key, not application logic; the loser of the race lands on the DO UPDATE
// branch and observes idempotent success.
func (s *Store) UpsertFavorite(ctx context.Context, fav *domain.Favorite) (*domain.Favorite, error) {
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, normalized_key, text, author, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, normalized_key) DO UPDATE SET
			text = excluded.text,
			author = excluded.author`,
		fav.UserID,
		fav.NormalizedKey,
		fav.Text,
		fav.Author,
		formatTime(fav.CreatedAt),
	)
	if err != nil {
		return nil, err
	}

	return s.GetFavorite(ctx, fav.UserID, fav.NormalizedKey)
}

// DeleteFavorite removes a like and returns the deleted row.
// Returns store.ErrNotFound when no such like exists; callers decide whether
// that is an error.
func (s *Store) DeleteFavorite(ctx context.Context, userID, normalizedKey string) (*domain.Favorite, error) {
	fav, err := s.GetFavorite(ctx, userID, normalizedKey)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE user_id = ? AND normalized_key = ?`,
		userID, normalizedKey,
	)
	if err != nil {
		return nil, err
	}
	return fav, nil
}

// GetFavorite retrieves one like by its natural key.
func (s *Store) GetFavorite(ctx context.Context, userID, normalizedKey string) (*domain.Favorite, error) {
	var fav domain.Favorite
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, normalized_key, text, author, created_at
		FROM favorites WHERE user_id = ? AND normalized_key = ?`,
		userID, normalizedKey,
	).Scan(&fav.UserID, &fav.NormalizedKey, &fav.Text, &fav.Author, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("favorite not found")
	}
	if err != nil {
		return nil, err
	}

	if fav.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &fav, nil
}

// ListFavoritesForUser returns all likes by a user, newest first.
func (s *Store) ListFavoritesForUser(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, normalized_key, text, author, created_at
		FROM favorites WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favs []*domain.Favorite
	for rows.Next() {
		var fav domain.Favorite
		var createdAt string
		if err := rows.Scan(&fav.UserID, &fav.NormalizedKey, &fav.Text, &fav.Author, &createdAt); err != nil {
			return nil, err
		}
		if fav.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		favs = append(favs, &fav)
	}
	return favs, rows.Err()
}

// CountUniqueLikersForKeys returns, for each key, the number of distinct
// users who liked it. One GROUP BY query regardless of key count; keys with
// no likes are absent from the result map.
func (s *Store) CountUniqueLikersForKeys(ctx context.Context, keys []string) (map[string]int, error) {
	counts := make(map[string]int, len(keys))
	if len(keys) == 0 {
		return counts, nil
	}

	placeholders := strings.Repeat("?,", len(keys)-1) + "?"
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT normalized_key, COUNT(DISTINCT user_id)
		FROM favorites
		WHERE normalized_key IN (`+placeholders+`)
		GROUP BY normalized_key`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// CountLikesGivenToOthers counts the distinct normalized keys a user has
// liked that appear among OTHER users' published quotes. Liking one's own
// post does not move this counter.
func (s *Store) CountLikesGivenToOthers(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT f.normalized_key)
		FROM favorites f
		WHERE f.user_id = ?
		  AND EXISTS (
			SELECT 1 FROM quotes q
			WHERE q.normalized_key = f.normalized_key
			  AND q.user_id <> f.user_id
			  AND q.published = 1
		  )`, userID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// HasFavoriteInRange reports whether the user created at least one like in
// [start, end).
func (s *Store) HasFavoriteInRange(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM favorites
		WHERE user_id = ? AND created_at >= ? AND created_at < ?
		LIMIT 1`,
		userID, timeBound(start), timeBound(end),
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
