package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quotedeck/quotedeck-server/internal/domain"
)

func (s *Server) registerEntitlementRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listEntitlements",
		Method:      http.MethodGet,
		Path:        "/api/v1/entitlements",
		Summary:     "List entitlements",
		Description: "Returns the caller's grants, optionally filtered by kind. Expired grants are included.",
		Tags:        []string{"Entitlements"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListEntitlements)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkAccess",
		Method:      http.MethodGet,
		Path:        "/api/v1/entitlements/access",
		Summary:     "Check access",
		Description: "Reports whether the caller holds an unexpired grant for a resource. Fails closed: any error denies.",
		Tags:        []string{"Entitlements"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCheckAccess)

	huma.Register(s.api, huma.Operation{
		OperationID:   "grantEntitlement",
		Method:        http.MethodPost,
		Path:          "/api/v1/entitlements",
		Summary:       "Grant an entitlement",
		Description:   "Grants a resource to a user. Re-granting updates expiry and metadata in place.",
		Tags:          []string{"Entitlements"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleGrantEntitlement)

	huma.Register(s.api, huma.Operation{
		OperationID: "revokeEntitlement",
		Method:      http.MethodDelete,
		Path:        "/api/v1/entitlements",
		Summary:     "Revoke an entitlement",
		Description: "Removes a user's grant. Revoking an absent grant removes zero rows and succeeds.",
		Tags:        []string{"Entitlements"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRevokeEntitlement)
}

// === DTOs ===

// EntitlementResponse is the API shape of a grant.
type EntitlementResponse struct {
	Kind       string         `json:"kind"`
	ResourceID string         `json:"resource_id"`
	ExpiresAt  *time.Time     `json:"expires_at,omitempty" doc:"Absent for non-expiring grants"`
	GrantedBy  string         `json:"granted_by,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ListEntitlementsInput carries the optional kind filter.
type ListEntitlementsInput struct {
	Authorization string `header:"Authorization"`
	Kind          string `query:"kind" doc:"Filter by kind: audio, package, or subscription"`
}

// ListEntitlementsOutput wraps the grant list.
type ListEntitlementsOutput struct {
	Body struct {
		Entitlements []EntitlementResponse `json:"entitlements"`
	}
}

// CheckAccessInput identifies the resource to check.
type CheckAccessInput struct {
	Authorization string `header:"Authorization"`
	Kind          string `query:"kind" required:"true" enum:"audio,package,subscription" doc:"Resource kind"`
	ResourceID    string `query:"resource_id" required:"true" doc:"Resource identifier"`
}

// CheckAccessOutput reports the access decision.
type CheckAccessOutput struct {
	Body struct {
		Allowed bool `json:"allowed"`
	}
}

// GrantEntitlementRequest is the grant body.
type GrantEntitlementRequest struct {
	UserID     string         `json:"user_id" validate:"required,max=128" doc:"Internal or external user identifier"`
	Kind       string         `json:"kind" validate:"required,oneof=audio package subscription"`
	ResourceID string         `json:"resource_id" validate:"required,max=256"`
	ExpiresAt  *time.Time     `json:"expires_at,omitempty" doc:"Omit for a non-expiring grant"`
	GrantedBy  string         `json:"granted_by,omitempty" validate:"max=128" doc:"Provenance tag"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// GrantEntitlementInput wraps the grant body.
type GrantEntitlementInput struct {
	Authorization string `header:"Authorization"`
	Body          GrantEntitlementRequest
}

// GrantEntitlementOutput wraps the created grant.
type GrantEntitlementOutput struct {
	Body EntitlementResponse
}

// RevokeEntitlementInput identifies the grant to revoke.
type RevokeEntitlementInput struct {
	Authorization string `header:"Authorization"`
	UserID        string `query:"user_id" required:"true" doc:"Internal or external user identifier"`
	Kind          string `query:"kind" required:"true" enum:"audio,package,subscription"`
	ResourceID    string `query:"resource_id" required:"true"`
}

// RevokeEntitlementOutput reports how many grants were removed.
type RevokeEntitlementOutput struct {
	Body struct {
		Removed int `json:"removed"`
	}
}

// === Handlers ===

func (s *Server) handleListEntitlements(ctx context.Context, input *ListEntitlementsInput) (*ListEntitlementsOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	ents, err := s.services.Entitlements.ListForUser(ctx, userID, domain.EntitlementKind(input.Kind))
	if err != nil {
		return nil, err
	}

	out := &ListEntitlementsOutput{}
	out.Body.Entitlements = make([]EntitlementResponse, len(ents))
	for i, e := range ents {
		out.Body.Entitlements[i] = toEntitlementResponse(e)
	}
	return out, nil
}

func (s *Server) handleCheckAccess(ctx context.Context, input *CheckAccessInput) (*CheckAccessOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	out := &CheckAccessOutput{}
	out.Body.Allowed = s.services.Entitlements.HasAccess(ctx, userID, domain.EntitlementKind(input.Kind), input.ResourceID)
	return out, nil
}

func (s *Server) handleGrantEntitlement(ctx context.Context, input *GrantEntitlementInput) (*GrantEntitlementOutput, error) {
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	ent, err := s.services.Entitlements.Grant(ctx, input.Body.UserID, domain.EntitlementKind(input.Body.Kind), input.Body.ResourceID, domain.GrantOptions{
		ExpiresAt: input.Body.ExpiresAt,
		GrantedBy: input.Body.GrantedBy,
		Metadata:  input.Body.Metadata,
	})
	if err != nil {
		return nil, err
	}
	return &GrantEntitlementOutput{Body: toEntitlementResponse(ent)}, nil
}

func (s *Server) handleRevokeEntitlement(ctx context.Context, input *RevokeEntitlementInput) (*RevokeEntitlementOutput, error) {
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}

	removed, err := s.services.Entitlements.Revoke(ctx, input.UserID, domain.EntitlementKind(input.Kind), input.ResourceID)
	if err != nil {
		return nil, err
	}

	out := &RevokeEntitlementOutput{}
	out.Body.Removed = removed
	return out, nil
}

func toEntitlementResponse(e *domain.Entitlement) EntitlementResponse {
	return EntitlementResponse{
		Kind:       string(e.Kind),
		ResourceID: e.ResourceID,
		ExpiresAt:  e.ExpiresAt,
		GrantedBy:  e.GrantedBy,
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt,
	}
}
