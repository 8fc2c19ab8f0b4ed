package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedeck/quotedeck-server/internal/domain"
	"github.com/quotedeck/quotedeck-server/internal/errors"
	"github.com/quotedeck/quotedeck-server/internal/normalize"
)

// completeCurator seeds everything the curator badge requires: ten
// published quotes, five follows, ten likes on another user's quotes, and
// a three-day streak ending at now.
func (e *testEnv) completeCurator(t *testing.T, alice *domain.User, now time.Time) {
	t.Helper()
	ctx := context.Background()

	e.createQuotes(t, alice.ID, 10, now.Add(-time.Hour))

	for i := 0; i < 5; i++ {
		other := e.createUser(t, fmt.Sprintf("20%02d", i))
		require.NoError(t, e.store.CreateFollow(ctx, &domain.Follow{
			FollowerID: alice.ID,
			FolloweeID: other.ID,
			CreatedAt:  now,
		}))
	}

	bob := e.createUser(t, "3001")
	for _, q := range e.createQuotes(t, bob.ID, 10, now) {
		_, err := e.favorites.Add(ctx, alice.ExternalID, q.Text, q.Author)
		require.NoError(t, err)
	}

	e.checkIn(t, alice.ID, now.AddDate(0, 0, -1))
	e.checkIn(t, alice.ID, now.AddDate(0, 0, -2))
}

func TestBadgeProgress_FreshUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "1001")
	env.freeze(time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC))

	p, err := env.badges.GetProgress(context.Background(), alice.ExternalID, domain.BadgeCurator)
	require.NoError(t, err)

	assert.False(t, p.Completed)
	assert.False(t, p.Claimed)
	assert.Equal(t, 0, p.Percent)
	for _, m := range p.Metrics() {
		assert.Equal(t, 0, m.Current)
	}
}

func TestBadgeProgress_Partial(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "1001")
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	env.freeze(now)

	// 5 of 10 quotes; posting today also starts a 1-day streak.
	env.createQuotes(t, alice.ID, 5, now.Add(-time.Hour))

	p, err := env.badges.GetProgress(context.Background(), alice.ExternalID, domain.BadgeCurator)
	require.NoError(t, err)

	assert.Equal(t, 5, p.Quotes.Current)
	assert.Equal(t, 1, p.Streak.Current)
	assert.False(t, p.Completed)
	// (50 + 0 + 0 + 33.3) / 4 rounds to 21.
	assert.Equal(t, 21, p.Percent)
}

func TestBadgeProgress_SelfLikeExcluded(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "1001")
	bob := env.createUser(t, "1002")
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	env.freeze(now)
	ctx := context.Background()

	own := env.createQuotes(t, alice.ID, 1, now)[0]
	theirs := env.createQuotes(t, bob.ID, 1, now)[0]

	_, err := env.favorites.Add(ctx, alice.ExternalID, own.Text, own.Author)
	require.NoError(t, err)
	_, err = env.favorites.Add(ctx, alice.ExternalID, theirs.Text, theirs.Author)
	require.NoError(t, err)

	p, err := env.badges.GetProgress(ctx, alice.ExternalID, domain.BadgeCurator)
	require.NoError(t, err)
	assert.Equal(t, 1, p.LikesGiven.Current, "self-like must not count")
}

func TestBadgeProgress_Complete(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "1001")
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	env.freeze(now)
	env.completeCurator(t, alice, now)

	p, err := env.badges.GetProgress(context.Background(), alice.ExternalID, domain.BadgeCurator)
	require.NoError(t, err)

	assert.True(t, p.Completed)
	assert.Equal(t, 100, p.Percent)
	assert.False(t, p.Claimed, "completion alone does not claim")
}

func TestBadgeProgress_UnknownBadge(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "1001")

	_, err := env.badges.GetProgress(context.Background(), alice.ExternalID, "no-such-badge")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestBadgeProgress_ClaimedViaAchievementAfterExpiry(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "1001")
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	env.freeze(now)
	ctx := context.Background()

	badge, _ := domain.BadgeByID(domain.BadgeCurator)

	// Entitlement long gone, permanent flag still set.
	expired := now.Add(-time.Hour)
	_, err := env.store.UpsertEntitlement(ctx, &domain.Entitlement{
		UserID:     alice.ID,
		Kind:       badge.RewardKind,
		ResourceID: badge.RewardResourceID,
		ExpiresAt:  &expired,
	})
	require.NoError(t, err)
	require.NoError(t, env.store.AddAchievement(ctx, alice.ID, badge.AchievementID(), now.AddDate(0, -2, 0)))

	p, err := env.badges.GetProgress(ctx, alice.ExternalID, domain.BadgeCurator)
	require.NoError(t, err)
	assert.True(t, p.Claimed, "earned is permanent even after the grant expires")
}

func TestBadgeClaim_RequirementsNotMet(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "1001")
	env.freeze(time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC))

	res, err := env.badges.Claim(context.Background(), alice.ExternalID, domain.BadgeCurator)
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, domain.ClaimReasonRequirementsNotMet, res.Reason)
	require.NotNil(t, res.Progress, "failed claim reports current progress")
	assert.False(t, res.Progress.Completed)
}

func TestBadgeClaim_SuccessThenIdempotent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "1001")
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	env.freeze(now)
	env.completeCurator(t, alice, now)
	ctx := context.Background()

	badge, _ := domain.BadgeByID(domain.BadgeCurator)

	first, err := env.badges.Claim(ctx, alice.ExternalID, domain.BadgeCurator)
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.False(t, first.AlreadyClaimed)
	require.NotNil(t, first.ExpiresAt)
	assert.Equal(t, now.UTC().Add(badge.RewardDuration), first.ExpiresAt.UTC())

	// The grant is live and the permanent flag is set.
	assert.True(t, env.entitlements.HasAccess(ctx, alice.ExternalID, badge.RewardKind, badge.RewardResourceID))
	has, err := env.store.HasAchievement(ctx, alice.ID, badge.AchievementID())
	require.NoError(t, err)
	assert.True(t, has)

	// Re-claiming succeeds without extending access.
	second, err := env.badges.Claim(ctx, alice.ExternalID, domain.BadgeCurator)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.True(t, second.AlreadyClaimed)
	require.NotNil(t, second.ExpiresAt)
	assert.True(t, first.ExpiresAt.Equal(*second.ExpiresAt), "re-claim must not extend expiry")

	p, err := env.badges.GetProgress(ctx, alice.ExternalID, domain.BadgeCurator)
	require.NoError(t, err)
	assert.True(t, p.Claimed)
}

// attributedOnly counts only quotes that credit a source.
type attributedOnly struct{}

func (attributedOnly) IncludeQuote(q *domain.QuotePost) bool { return q.Published && q.Author != "" }
func (attributedOnly) IncludePhoto(p *domain.PhotoPost) bool { return p.Published }

func TestBadgeProgress_CustomContentFilter(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "1001")
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	env.freeze(now)
	ctx := context.Background()

	env.createQuotes(t, alice.ID, 3, now.Add(-time.Hour))
	unattributed := &domain.QuotePost{
		ID:            "qte-bbbbbbbbbbbbbbbbbbbbb",
		UserID:        alice.ID,
		Text:          "An orphaned line",
		NormalizedKey: normalize.Key("An orphaned line", ""),
		Published:     true,
		CreatedAt:     now.Add(-time.Hour),
	}
	require.NoError(t, env.store.CreateQuote(ctx, unattributed))

	p, err := env.badges.GetProgress(ctx, alice.ExternalID, domain.BadgeCurator)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Quotes.Current)

	strict := NewBadgeService(env.store, env.identity, env.streak, attributedOnly{}, env.badges.logger)
	strict.now = env.badges.now

	p, err = strict.GetProgress(ctx, alice.ExternalID, domain.BadgeCurator)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Quotes.Current)
}

func TestBadgeClaim_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.badges.Claim(context.Background(), "no-such-user", domain.BadgeCurator)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, domain.ClaimReasonUserNotFound, res.Reason)
}

func TestBadgeClaim_UnknownBadge(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "1001")

	res, err := env.badges.Claim(context.Background(), alice.ExternalID, "no-such-badge")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, domain.ClaimReasonUnknownBadge, res.Reason)
}
