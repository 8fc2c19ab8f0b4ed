package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quotedeck/quotedeck-server/internal/domain"
)

func (s *Server) registerBadgeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBadges",
		Method:      http.MethodGet,
		Path:        "/api/v1/badges",
		Summary:     "List badges",
		Description: "Returns all badge definitions",
		Tags:        []string{"Badges"},
	}, s.handleListBadges)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBadgeProgress",
		Method:      http.MethodGet,
		Path:        "/api/v1/badges/{badgeID}/progress",
		Summary:     "Get badge progress",
		Description: "Returns the caller's progress snapshot for one badge, computed fresh",
		Tags:        []string{"Badges"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBadgeProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "claimBadge",
		Method:      http.MethodPost,
		Path:        "/api/v1/badges/{badgeID}/claim",
		Summary:     "Claim a badge",
		Description: "Grants the badge's reward entitlement if progress is complete. Idempotent; re-claiming returns the existing expiry.",
		Tags:        []string{"Badges"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleClaimBadge)
}

// === DTOs ===

// BadgeResponse is the API shape of a badge definition.
type BadgeResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	QuotesRequired     int    `json:"quotes_required"`
	FollowsRequired    int    `json:"follows_required"`
	LikesGivenRequired int    `json:"likes_given_required"`
	StreakRequired     int    `json:"streak_required"`
	RewardDays         int    `json:"reward_days" doc:"Reward entitlement duration in days"`
}

// ListBadgesOutput wraps the badge list.
type ListBadgesOutput struct {
	Body struct {
		Badges []BadgeResponse `json:"badges"`
	}
}

// BadgeProgressInput identifies the badge.
type BadgeProgressInput struct {
	Authorization string `header:"Authorization"`
	BadgeID       string `path:"badgeID" doc:"Badge identifier"`
}

// BadgeProgressOutput wraps the progress snapshot.
type BadgeProgressOutput struct {
	Body domain.BadgeProgress
}

// ClaimBadgeInput identifies the badge to claim.
type ClaimBadgeInput struct {
	Authorization string `header:"Authorization"`
	BadgeID       string `path:"badgeID" doc:"Badge identifier"`
}

// ClaimBadgeOutput wraps the claim result. Business outcomes are fields of
// the result, not HTTP errors.
type ClaimBadgeOutput struct {
	Body domain.ClaimResult
}

// === Handlers ===

func (s *Server) handleListBadges(_ context.Context, _ *struct{}) (*ListBadgesOutput, error) {
	defs := domain.AllBadges()

	out := &ListBadgesOutput{}
	out.Body.Badges = make([]BadgeResponse, len(defs))
	for i, b := range defs {
		out.Body.Badges[i] = BadgeResponse{
			ID:                 b.ID,
			Name:               b.Name,
			Description:        b.Description,
			QuotesRequired:     b.QuotesRequired,
			FollowsRequired:    b.FollowsRequired,
			LikesGivenRequired: b.LikesGivenRequired,
			StreakRequired:     b.StreakRequired,
			RewardDays:         int(b.RewardDuration / (24 * time.Hour)),
		}
	}
	return out, nil
}

func (s *Server) handleGetBadgeProgress(ctx context.Context, input *BadgeProgressInput) (*BadgeProgressOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	progress, err := s.services.Badges.GetProgress(ctx, userID, input.BadgeID)
	if err != nil {
		return nil, err
	}
	return &BadgeProgressOutput{Body: *progress}, nil
}

func (s *Server) handleClaimBadge(ctx context.Context, input *ClaimBadgeInput) (*ClaimBadgeOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	// Claims hit five metric reads plus two writes; throttle per user.
	if !s.claimLimiter.Allow(userID) {
		s.logger.Warn("claim rate limit exceeded", "user_id", userID, "badge_id", input.BadgeID)
		return nil, huma.Error429TooManyRequests("Too many claim attempts. Please try again later.")
	}

	result, err := s.services.Badges.Claim(ctx, userID, input.BadgeID)
	if err != nil {
		s.logger.Error("badge claim failed", "user_id", userID, "badge_id", input.BadgeID, "error", err)
		return nil, err
	}
	return &ClaimBadgeOutput{Body: *result}, nil
}
