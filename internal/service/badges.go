package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/quotedeck/quotedeck-server/internal/domain"
	"github.com/quotedeck/quotedeck-server/internal/errors"
	"github.com/quotedeck/quotedeck-server/internal/store"
)

// ContentFilter decides which posts count toward badge content metrics.
// The classification rule is a product decision that has changed before, so
// it is injected rather than hard-coded.
type ContentFilter interface {
	IncludeQuote(q *domain.QuotePost) bool
	IncludePhoto(p *domain.PhotoPost) bool
}

// PublishedContentFilter counts every published post.
type PublishedContentFilter struct{}

// IncludeQuote reports whether a quote counts toward progress.
func (PublishedContentFilter) IncludeQuote(q *domain.QuotePost) bool { return q.Published }

// IncludePhoto reports whether a photo counts toward progress.
func (PublishedContentFilter) IncludePhoto(p *domain.PhotoPost) bool { return p.Published }

// BadgeService computes badge progress snapshots and runs the claim
// workflow that converts a completed badge into an entitlement.
type BadgeService struct {
	store    store.Store
	identity *IdentityService
	streak   *StreakService
	filter   ContentFilter
	logger   *slog.Logger
	now      func() time.Time
}

// NewBadgeService creates a new badge service. A nil filter counts all
// published content.
func NewBadgeService(store store.Store, identity *IdentityService, streak *StreakService, filter ContentFilter, logger *slog.Logger) *BadgeService {
	if filter == nil {
		filter = PublishedContentFilter{}
	}
	return &BadgeService{
		store:    store,
		identity: identity,
		streak:   streak,
		filter:   filter,
		logger:   logger,
		now:      time.Now,
	}
}

// GetProgress computes the user's progress snapshot for one badge. The
// snapshot is derived fresh on every call and never persisted.
func (s *BadgeService) GetProgress(ctx context.Context, rawUserID, badgeID string) (*domain.BadgeProgress, error) {
	badge, ok := domain.BadgeByID(badgeID)
	if !ok {
		return nil, errors.NotFoundf("unknown badge %q", badgeID)
	}

	userID, err := s.identity.Resolve(ctx, rawUserID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "resolve user")
	}
	if userID == "" {
		return nil, errors.NotFound("user not found")
	}

	return s.progressForUser(ctx, userID, badge)
}

// progressForUser gathers the per-metric counters and the claimed flag.
// The five reads are independent and issued concurrently; the snapshot is
// assembled only after all of them return.
func (s *BadgeService) progressForUser(ctx context.Context, userID string, badge domain.Badge) (*domain.BadgeProgress, error) {
	var (
		wg       sync.WaitGroup
		content  int
		follows  int
		likes    int
		streak   int
		claimed  bool
		errs     [5]error
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		content, errs[0] = s.countQualifyingContent(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		follows, errs[1] = s.store.CountFollowsCreated(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		likes, errs[2] = s.store.CountLikesGivenToOthers(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		streak, errs[3] = s.streak.Compute(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		claimed, errs[4] = s.isClaimed(ctx, userID, badge)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "compute badge progress")
		}
	}

	progress := &domain.BadgeProgress{
		BadgeID:    badge.ID,
		Quotes:     domain.MetricProgress{Current: content, Required: badge.QuotesRequired},
		Follows:    domain.MetricProgress{Current: follows, Required: badge.FollowsRequired},
		LikesGiven: domain.MetricProgress{Current: likes, Required: badge.LikesGivenRequired},
		Streak:     domain.MetricProgress{Current: streak, Required: badge.StreakRequired},
		Claimed:    claimed,
	}
	progress.Finalize()
	return progress, nil
}

// countQualifyingContent counts the user's posts that pass the content
// filter, across both post types.
func (s *BadgeService) countQualifyingContent(ctx context.Context, userID string) (int, error) {
	quotes, err := s.store.ListQuotesForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	photos, err := s.store.ListPhotosForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, q := range quotes {
		if s.filter.IncludeQuote(q) {
			count++
		}
	}
	for _, p := range photos {
		if s.filter.IncludePhoto(p) {
			count++
		}
	}
	return count, nil
}

// isClaimed checks both claim markers: an active entitlement for the
// badge's reward, and the permanent achievement flag. Either suffices; the
// entitlement may have expired while the achievement persists, so "earned"
// and "currently entitled" are separate facts.
func (s *BadgeService) isClaimed(ctx context.Context, userID string, badge domain.Badge) (bool, error) {
	ent, err := s.store.GetEntitlement(ctx, userID, badge.RewardKind, badge.RewardResourceID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	if err == nil && ent.Active(s.now()) {
		return true, nil
	}
	return s.store.HasAchievement(ctx, userID, badge.AchievementID())
}

// Claim runs the badge claim workflow.
//
// Business outcomes (requirements not met, already claimed, unknown user)
// come back as fields on the result; only store failures are Go errors.
// Claiming an already-claimed badge returns the existing expiry unchanged.
func (s *BadgeService) Claim(ctx context.Context, rawUserID, badgeID string) (*domain.ClaimResult, error) {
	badge, ok := domain.BadgeByID(badgeID)
	if !ok {
		return &domain.ClaimResult{Reason: domain.ClaimReasonUnknownBadge}, nil
	}

	userID, err := s.identity.Resolve(ctx, rawUserID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "resolve user")
	}
	if userID == "" {
		return &domain.ClaimResult{Reason: domain.ClaimReasonUserNotFound}, nil
	}

	// Prior grant means the badge is already claimed, whatever its expiry.
	// Re-claiming re-affirms the achievement flag but never extends access.
	existing, err := s.store.GetEntitlement(ctx, userID, badge.RewardKind, badge.RewardResourceID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(err, errors.CodeInternal, "check existing grant")
	}
	if err == nil {
		s.recordAchievement(ctx, userID, badge)
		return &domain.ClaimResult{
			Success:        true,
			AlreadyClaimed: true,
			ExpiresAt:      existing.ExpiresAt,
		}, nil
	}

	progress, err := s.progressForUser(ctx, userID, badge)
	if err != nil {
		return nil, err
	}
	if !progress.Completed {
		return &domain.ClaimResult{
			Reason:   domain.ClaimReasonRequirementsNotMet,
			Progress: progress,
		}, nil
	}

	expiresAt := s.now().UTC().Add(badge.RewardDuration)
	ent, err := s.store.UpsertEntitlement(ctx, &domain.Entitlement{
		UserID:     userID,
		Kind:       badge.RewardKind,
		ResourceID: badge.RewardResourceID,
		ExpiresAt:  &expiresAt,
		GrantedBy:  badge.AchievementID(),
		Metadata:   map[string]any{"badge_id": badge.ID},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "grant badge reward")
	}

	s.logger.Info("badge claimed",
		"user_id", userID,
		"badge_id", badge.ID,
		"expires_at", ent.ExpiresAt,
	)

	// Best effort. The entitlement is the source of truth for access; a
	// failed flag write must not roll back a successful grant.
	s.recordAchievement(ctx, userID, badge)

	return &domain.ClaimResult{
		Success:   true,
		ExpiresAt: ent.ExpiresAt,
	}, nil
}

// recordAchievement appends the permanent profile flag, logging instead of
// failing when the write does not land.
func (s *BadgeService) recordAchievement(ctx context.Context, userID string, badge domain.Badge) {
	if err := s.store.AddAchievement(ctx, userID, badge.AchievementID(), s.now().UTC()); err != nil {
		s.logger.Warn("achievement write failed",
			"user_id", userID,
			"achievement_id", badge.AchievementID(),
			"error", err,
		)
	}
}
