package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quotedeck/quotedeck-server/internal/domain"
	"github.com/quotedeck/quotedeck-server/internal/errors"
	"github.com/quotedeck/quotedeck-server/internal/id"
	"github.com/quotedeck/quotedeck-server/internal/store"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "issueToken",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/token",
		Summary:     "Issue access token",
		Description: "Registers the external identity if needed and issues an access token. The engine trusts its caller; deploy this endpoint on a private network.",
		Tags:        []string{"Auth"},
	}, s.handleIssueToken)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)
}

// === DTOs ===

// IssueTokenRequest identifies the platform user to issue a token for.
type IssueTokenRequest struct {
	ExternalID  string `json:"external_id" validate:"required,max=128" doc:"Host platform user identifier"`
	DisplayName string `json:"display_name,omitempty" validate:"max=128" doc:"Display name used when creating the user"`
}

// IssueTokenInput wraps the token request body.
type IssueTokenInput struct {
	Body IssueTokenRequest
}

// UserResponse is the API shape of a user.
type UserResponse struct {
	ID          string    `json:"id" doc:"Internal user ID"`
	ExternalID  string    `json:"external_id" doc:"Host platform identifier"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// IssueTokenOutput wraps the token response for Huma.
type IssueTokenOutput struct {
	Body struct {
		Token     string       `json:"token" doc:"PASETO v4.local access token"`
		ExpiresIn int64        `json:"expires_in" doc:"Token lifetime in seconds"`
		User      UserResponse `json:"user"`
	}
}

// AchievementResponse is one unlocked profile flag.
type AchievementResponse struct {
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// CurrentUserInput carries the auth header.
type CurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// CurrentUserOutput wraps the current user response for Huma.
type CurrentUserOutput struct {
	Body struct {
		User         UserResponse          `json:"user"`
		Achievements []AchievementResponse `json:"achievements"`
	}
}

// === Handlers ===

func (s *Server) handleIssueToken(ctx context.Context, input *IssueTokenInput) (*IssueTokenOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByExternalID(ctx, input.Body.ExternalID)
	if errors.Is(err, store.ErrNotFound) {
		user, err = s.createUser(ctx, input.Body)
	}
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error("token generation failed", "user_id", user.ID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to issue token")
	}

	out := &IssueTokenOutput{}
	out.Body.Token = token
	out.Body.ExpiresIn = int64(s.tokens.AccessTokenDuration().Seconds())
	out.Body.User = toUserResponse(user)
	return out, nil
}

func (s *Server) createUser(ctx context.Context, req IssueTokenRequest) (*domain.User, error) {
	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:          userID,
		ExternalID:  req.ExternalID,
		DisplayName: req.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.store.CreateUser(ctx, user)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a registration race; the winner's row is authoritative.
		return s.store.GetUserByExternalID(ctx, req.ExternalID)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "external_id", user.ExternalID)
	return user, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *CurrentUserInput) (*CurrentUserOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, huma.Error401Unauthorized("User not found")
	}

	achievements, err := s.store.ListAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &CurrentUserOutput{}
	out.Body.User = toUserResponse(user)
	out.Body.Achievements = make([]AchievementResponse, len(achievements))
	for i, a := range achievements {
		out.Body.Achievements[i] = AchievementResponse{
			AchievementID: a.AchievementID,
			UnlockedAt:    a.UnlockedAt,
		}
	}
	return out, nil
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		ExternalID:  u.ExternalID,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
