package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/quotedeck/quotedeck-server/internal/domain"
	"github.com/quotedeck/quotedeck-server/internal/errors"
	"github.com/quotedeck/quotedeck-server/internal/normalize"
	"github.com/quotedeck/quotedeck-server/internal/store"
)

// maxQuoteTextLength bounds the raw text accepted into a favorite. Quotes
// are short by nature; anything longer is a paste accident.
const maxQuoteTextLength = 2000

// FavoriteService records likes against normalized quote identities so that
// typographic variants of the same quote count once per user.
type FavoriteService struct {
	store    store.Store
	identity *IdentityService
	logger   *slog.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(store store.Store, identity *IdentityService, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		store:    store,
		identity: identity,
		logger:   logger,
	}
}

// Add records a like for the quote identified by its text and author.
// Liking an already-liked quote (or a punctuation variant of it) is a no-op
// that returns the existing favorite.
func (s *FavoriteService) Add(ctx context.Context, rawUserID, text, author string) (*domain.Favorite, error) {
	userID, err := s.resolveRequired(ctx, rawUserID)
	if err != nil {
		return nil, err
	}

	normalized := normalize.Text(text)
	if normalized == "" {
		return nil, errors.Validation("quote text is required")
	}
	if len(text) > maxQuoteTextLength {
		return nil, errors.Validation("quote text too long")
	}

	fav, err := s.store.UpsertFavorite(ctx, &domain.Favorite{
		UserID:        userID,
		NormalizedKey: normalize.Key(text, author),
		Text:          strings.TrimSpace(text),
		Author:        strings.TrimSpace(author),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "record favorite")
	}

	s.logger.Debug("favorite recorded", "user_id", userID, "key", fav.NormalizedKey)
	return fav, nil
}

// Remove deletes the user's like for the quote. Removing a quote the user
// never liked returns a not-found error.
func (s *FavoriteService) Remove(ctx context.Context, rawUserID, text, author string) (*domain.Favorite, error) {
	userID, err := s.resolveRequired(ctx, rawUserID)
	if err != nil {
		return nil, err
	}

	fav, err := s.store.DeleteFavorite(ctx, userID, normalize.Key(text, author))
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("favorite not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "remove favorite")
	}
	return fav, nil
}

// List returns the user's favorites, newest first.
func (s *FavoriteService) List(ctx context.Context, rawUserID string) ([]*domain.Favorite, error) {
	userID, err := s.resolveRequired(ctx, rawUserID)
	if err != nil {
		return nil, err
	}

	favs, err := s.store.ListFavoritesForUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "list favorites")
	}
	return favs, nil
}

// QuoteRef identifies a quote by its display text and author.
type QuoteRef struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// CountLikers returns, for each referenced quote, how many distinct users
// like it. Results are keyed by the quote's position in the input; quotes
// nobody likes report zero.
func (s *FavoriteService) CountLikers(ctx context.Context, refs []QuoteRef) ([]int, error) {
	keys := make([]string, len(refs))
	for i, ref := range refs {
		keys[i] = normalize.Key(ref.Text, ref.Author)
	}

	byKey, err := s.store.CountUniqueLikersForKeys(ctx, keys)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "count likers")
	}

	counts := make([]int, len(keys))
	for i, key := range keys {
		counts[i] = byKey[key]
	}
	return counts, nil
}

// resolveRequired maps a raw identifier to an internal user ID, rejecting
// identifiers that resolve to nobody.
func (s *FavoriteService) resolveRequired(ctx context.Context, rawUserID string) (string, error) {
	userID, err := s.identity.Resolve(ctx, rawUserID)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "resolve user")
	}
	if userID == "" {
		return "", errors.NotFound("user not found")
	}
	return userID, nil
}
