// Package service implements the engagement engine's business logic on top
// of the store layer.
package service

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/quotedeck/quotedeck-server/internal/errors"
	"github.com/quotedeck/quotedeck-server/internal/store"
)

// internalIDPattern matches internal user identifiers: the "usr-" prefix
// followed by a fixed-length NanoID body (see the id package).
//
//nolint:gochecknoglobals // Compiled once
var internalIDPattern = regexp.MustCompile(`^usr-[A-Za-z0-9_-]{21}$`)

// IdentityService translates between the host platform's external user
// identifiers and the internal identifiers that key favorite and
// entitlement rows.
//
// It is the only component allowed to sniff ID formats; everything else
// passes identifiers through opaquely.
type IdentityService struct {
	store  store.Store
	logger *slog.Logger
}

// NewIdentityService creates a new identity service.
func NewIdentityService(store store.Store, logger *slog.Logger) *IdentityService {
	return &IdentityService{
		store:  store,
		logger: logger,
	}
}

// Resolve maps a raw identifier to the internal user ID.
//
// A value already in the internal format is returned as-is without a
// lookup. Anything else is treated as an external platform identifier and
// looked up; an unknown identifier resolves to "" with a nil error, leaving
// the caller to decide (access-check callers fail closed).
func (s *IdentityService) Resolve(ctx context.Context, rawID string) (string, error) {
	if rawID == "" {
		return "", nil
	}

	if internalIDPattern.MatchString(rawID) {
		return rawID, nil
	}

	user, err := s.store.GetUserByExternalID(ctx, rawID)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		s.logger.Error("identity lookup failed", "external_id", rawID, "error", err)
		return "", err
	}
	return user.ID, nil
}
