package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/quotedeck/quotedeck-server/internal/domain"
	"github.com/quotedeck/quotedeck-server/internal/store"
)

// Activity producers. These write paths belong to the surrounding product;
// the engine exposes them for seeding and so tests can drive realistic
// histories.

// CreateQuote inserts a quote post.
func (s *Store) CreateQuote(ctx context.Context, q *domain.QuotePost) error {
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quotes (id, user_id, text, author, normalized_key, published, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.UserID, q.Text, q.Author, q.NormalizedKey, boolToInt(q.Published), formatTime(q.CreatedAt),
	)
	if err != nil && isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("quote already exists").WithCause(err)
	}
	return err
}

// CreatePhoto inserts a photo post.
func (s *Store) CreatePhoto(ctx context.Context, p *domain.PhotoPost) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO photos (id, user_id, published, created_at)
		VALUES (?, ?, ?, ?)`,
		p.ID, p.UserID, boolToInt(p.Published), formatTime(p.CreatedAt),
	)
	if err != nil && isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("photo already exists").WithCause(err)
	}
	return err
}

// CreateFollow records one user following another. Following twice is a
// no-op resolved by the primary key.
func (s *Store) CreateFollow(ctx context.Context, f *domain.Follow) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO follows (follower_id, followee_id, created_at)
		VALUES (?, ?, ?)`,
		f.FollowerID, f.FolloweeID, formatTime(f.CreatedAt),
	)
	return err
}

// CreateCheckIn appends a daily check-in event.
func (s *Store) CreateCheckIn(ctx context.Context, c *domain.CheckIn) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checkins (user_id, type, created_at)
		VALUES (?, ?, ?)`,
		c.UserID, c.Type, formatTime(c.CreatedAt),
	)
	return err
}

// ListQuotesForUser returns all quote posts authored by a user.
func (s *Store) ListQuotesForUser(ctx context.Context, userID string) ([]*domain.QuotePost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, text, author, normalized_key, published, created_at
		FROM quotes WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*domain.QuotePost
	for rows.Next() {
		var q domain.QuotePost
		var published int
		var createdAt string
		if err := rows.Scan(&q.ID, &q.UserID, &q.Text, &q.Author, &q.NormalizedKey, &published, &createdAt); err != nil {
			return nil, err
		}
		q.Published = published != 0
		if q.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		quotes = append(quotes, &q)
	}
	return quotes, rows.Err()
}

// ListPhotosForUser returns all photo posts authored by a user.
func (s *Store) ListPhotosForUser(ctx context.Context, userID string) ([]*domain.PhotoPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, published, created_at
		FROM photos WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []*domain.PhotoPost
	for rows.Next() {
		var p domain.PhotoPost
		var published int
		var createdAt string
		if err := rows.Scan(&p.ID, &p.UserID, &published, &createdAt); err != nil {
			return nil, err
		}
		p.Published = published != 0
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		photos = append(photos, &p)
	}
	return photos, rows.Err()
}

// CountFollowsCreated counts follows initiated by a user.
func (s *Store) CountFollowsCreated(ctx context.Context, followerID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ?`, followerID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// HasCheckInInRange reports whether the user has a check-in in [start, end).
func (s *Store) HasCheckInInRange(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	return s.existsInRange(ctx, `
		SELECT 1 FROM checkins
		WHERE user_id = ? AND created_at >= ? AND created_at < ?
		LIMIT 1`, userID, start, end)
}

// HasFollowInRange reports whether the user created a follow in [start, end).
func (s *Store) HasFollowInRange(ctx context.Context, followerID string, start, end time.Time) (bool, error) {
	return s.existsInRange(ctx, `
		SELECT 1 FROM follows
		WHERE follower_id = ? AND created_at >= ? AND created_at < ?
		LIMIT 1`, followerID, start, end)
}

// HasContentInRange reports whether the user posted a quote or photo in
// [start, end).
func (s *Store) HasContentInRange(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	return s.existsInRange(ctx, `
		SELECT 1 WHERE EXISTS (
			SELECT 1 FROM quotes
			WHERE user_id = ?1 AND created_at >= ?2 AND created_at < ?3
		) OR EXISTS (
			SELECT 1 FROM photos
			WHERE user_id = ?1 AND created_at >= ?2 AND created_at < ?3
		)`, userID, start, end)
}

func (s *Store) existsInRange(ctx context.Context, query, userID string, start, end time.Time) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, query, userID, timeBound(start), timeBound(end)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
