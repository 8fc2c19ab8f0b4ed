package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/quotedeck/quotedeck-server/internal/domain"
	"github.com/quotedeck/quotedeck-server/internal/errors"
	"github.com/quotedeck/quotedeck-server/internal/store"
)

// EntitlementService manages time-bounded access grants. Grants are
// idempotent per (user, kind, resource); access checks fail closed on any
// failure.
type EntitlementService struct {
	store    store.Store
	identity *IdentityService
	logger   *slog.Logger
	now      func() time.Time
}

// NewEntitlementService creates a new entitlement service.
func NewEntitlementService(store store.Store, identity *IdentityService, logger *slog.Logger) *EntitlementService {
	return &EntitlementService{
		store:    store,
		identity: identity,
		logger:   logger,
		now:      time.Now,
	}
}

// Grant gives the user access to a resource. Re-granting an existing
// entitlement updates its expiry and metadata in place.
func (s *EntitlementService) Grant(ctx context.Context, rawUserID string, kind domain.EntitlementKind, resourceID string, opts domain.GrantOptions) (*domain.Entitlement, error) {
	userID, err := s.identity.Resolve(ctx, rawUserID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "resolve user")
	}
	if userID == "" {
		return nil, errors.NotFound("user not found")
	}
	if resourceID == "" {
		return nil, errors.Validation("resource ID is required")
	}

	ent, err := s.store.UpsertEntitlement(ctx, &domain.Entitlement{
		UserID:     userID,
		Kind:       kind,
		ResourceID: resourceID,
		ExpiresAt:  opts.ExpiresAt,
		GrantedBy:  opts.GrantedBy,
		Metadata:   opts.Metadata,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "grant entitlement")
	}

	s.logger.Info("entitlement granted",
		"user_id", userID,
		"kind", kind,
		"resource_id", resourceID,
		"granted_by", opts.GrantedBy,
	)
	return ent, nil
}

// Revoke removes the user's grant for a resource and reports how many rows
// were removed. Revoking an absent grant is not an error.
func (s *EntitlementService) Revoke(ctx context.Context, rawUserID string, kind domain.EntitlementKind, resourceID string) (int, error) {
	userID, err := s.identity.Resolve(ctx, rawUserID)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "resolve user")
	}
	if userID == "" {
		return 0, errors.NotFound("user not found")
	}

	n, err := s.store.DeleteEntitlement(ctx, userID, kind, resourceID)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "revoke entitlement")
	}

	s.logger.Info("entitlement revoked",
		"user_id", userID,
		"kind", kind,
		"resource_id", resourceID,
		"removed", n,
	)
	return n, nil
}

// HasAccess reports whether the user holds an unexpired grant for the
// resource. Every failure mode resolves to false: unknown user, missing
// grant, expired grant, or a storage error. Denying a legitimate user is
// recoverable; granting access on an error is not.
func (s *EntitlementService) HasAccess(ctx context.Context, rawUserID string, kind domain.EntitlementKind, resourceID string) bool {
	userID, err := s.identity.Resolve(ctx, rawUserID)
	if err != nil || userID == "" {
		return false
	}

	ent, err := s.store.GetEntitlement(ctx, userID, kind, resourceID)
	if errors.Is(err, store.ErrNotFound) {
		return false
	}
	if err != nil {
		s.logger.Error("access check failed, denying",
			"user_id", userID,
			"kind", kind,
			"resource_id", resourceID,
			"error", err,
		)
		return false
	}
	return ent.Active(s.now())
}

// ListForUser returns the user's grants, optionally filtered by kind.
// Expired grants are included; expiry is the caller's concern.
func (s *EntitlementService) ListForUser(ctx context.Context, rawUserID string, kind domain.EntitlementKind) ([]*domain.Entitlement, error) {
	userID, err := s.identity.Resolve(ctx, rawUserID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "resolve user")
	}
	if userID == "" {
		return nil, errors.NotFound("user not found")
	}

	ents, err := s.store.ListEntitlementsForUser(ctx, userID, kind)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "list entitlements")
	}
	return ents, nil
}
