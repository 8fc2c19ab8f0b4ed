package sqlite

import (
	"context"
	"time"

	"github.com/quotedeck/quotedeck-server/internal/domain"
)

// AddAchievement records a permanent achievement flag on the user's profile.
// Re-adding an existing achievement is a no-op that keeps the original
// unlocked_at.
func (s *Store) AddAchievement(ctx context.Context, userID, achievementID string, unlockedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO achievements (user_id, achievement_id, unlocked_at)
		VALUES (?, ?, ?)`,
		userID, achievementID, formatTime(unlockedAt),
	)
	return err
}

// HasAchievement reports whether the user ever earned the achievement.
func (s *Store) HasAchievement(ctx context.Context, userID, achievementID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM achievements
		WHERE user_id = ? AND achievement_id = ?`,
		userID, achievementID,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListAchievements returns a user's achievements, oldest first.
func (s *Store) ListAchievements(ctx context.Context, userID string) ([]*domain.Achievement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, achievement_id, unlocked_at
		FROM achievements WHERE user_id = ?
		ORDER BY unlocked_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []*domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		var unlockedAt string
		if err := rows.Scan(&a.UserID, &a.AchievementID, &unlockedAt); err != nil {
			return nil, err
		}
		if a.UnlockedAt, err = parseTime(unlockedAt); err != nil {
			return nil, err
		}
		achievements = append(achievements, &a)
	}
	return achievements, rows.Err()
}
