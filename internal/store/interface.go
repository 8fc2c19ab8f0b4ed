// Package store defines the persistence interface for the QuoteDeck
// engagement engine.
package store

import (
	"context"
	"time"

	"github.com/quotedeck/quotedeck-server/internal/domain"
)

// Store defines the interface for all persistence operations.
//
// Uniqueness invariants (one favorite per user and normalized key, one
// entitlement per user/kind/resource, one achievement per user and
// achievement ID) are enforced by the backing storage's constraints, not by
// callers.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// Profile achievements (permanent flags; append is idempotent)
	AddAchievement(ctx context.Context, userID, achievementID string, unlockedAt time.Time) error
	HasAchievement(ctx context.Context, userID, achievementID string) (bool, error)
	ListAchievements(ctx context.Context, userID string) ([]*domain.Achievement, error)

	// Favorites (likes)
	UpsertFavorite(ctx context.Context, fav *domain.Favorite) (*domain.Favorite, error)
	DeleteFavorite(ctx context.Context, userID, normalizedKey string) (*domain.Favorite, error)
	GetFavorite(ctx context.Context, userID, normalizedKey string) (*domain.Favorite, error)
	ListFavoritesForUser(ctx context.Context, userID string) ([]*domain.Favorite, error)
	CountUniqueLikersForKeys(ctx context.Context, keys []string) (map[string]int, error)
	CountLikesGivenToOthers(ctx context.Context, userID string) (int, error)
	HasFavoriteInRange(ctx context.Context, userID string, start, end time.Time) (bool, error)

	// Entitlements
	UpsertEntitlement(ctx context.Context, ent *domain.Entitlement) (*domain.Entitlement, error)
	GetEntitlement(ctx context.Context, userID string, kind domain.EntitlementKind, resourceID string) (*domain.Entitlement, error)
	DeleteEntitlement(ctx context.Context, userID string, kind domain.EntitlementKind, resourceID string) (int, error)
	ListEntitlementsForUser(ctx context.Context, userID string, kind domain.EntitlementKind) ([]*domain.Entitlement, error)

	// Activity producers (owned by the surrounding product; the engine
	// exposes the write paths for seeding and observation)
	CreateQuote(ctx context.Context, q *domain.QuotePost) error
	CreatePhoto(ctx context.Context, p *domain.PhotoPost) error
	CreateFollow(ctx context.Context, f *domain.Follow) error
	CreateCheckIn(ctx context.Context, c *domain.CheckIn) error

	// Activity reads for progress metrics
	ListQuotesForUser(ctx context.Context, userID string) ([]*domain.QuotePost, error)
	ListPhotosForUser(ctx context.Context, userID string) ([]*domain.PhotoPost, error)
	CountFollowsCreated(ctx context.Context, followerID string) (int, error)

	// Day-window existence checks for the streak calculator
	HasCheckInInRange(ctx context.Context, userID string, start, end time.Time) (bool, error)
	HasFollowInRange(ctx context.Context, followerID string, start, end time.Time) (bool, error)
	HasContentInRange(ctx context.Context, userID string, start, end time.Time) (bool, error)
}
