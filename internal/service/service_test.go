package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quotedeck/quotedeck-server/internal/domain"
	"github.com/quotedeck/quotedeck-server/internal/id"
	"github.com/quotedeck/quotedeck-server/internal/normalize"
	"github.com/quotedeck/quotedeck-server/internal/store"
	"github.com/quotedeck/quotedeck-server/internal/store/sqlite"
)

// testEnv wires the service layer against a throwaway database.
type testEnv struct {
	store        store.Store
	identity     *IdentityService
	favorites    *FavoriteService
	entitlements *EntitlementService
	streak       *StreakService
	badges       *BadgeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	identity := NewIdentityService(s, logger)
	streak := NewStreakService(s, logger)
	return &testEnv{
		store:        s,
		identity:     identity,
		favorites:    NewFavoriteService(s, identity, logger),
		entitlements: NewEntitlementService(s, identity, logger),
		streak:       streak,
		badges:       NewBadgeService(s, identity, streak, nil, logger),
	}
}

// freeze pins every clock-dependent service to a fixed instant.
func (e *testEnv) freeze(at time.Time) {
	e.streak.now = func() time.Time { return at }
	e.badges.now = func() time.Time { return at }
	e.entitlements.now = func() time.Time { return at }
}

func (e *testEnv) createUser(t *testing.T, externalID string) *domain.User {
	t.Helper()

	now := time.Now().UTC()
	user := &domain.User{
		ID:          id.MustGenerate(id.PrefixUser),
		ExternalID:  externalID,
		DisplayName: "Test User " + externalID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), user))
	return user
}

// createQuotes posts n published quotes for the user at the given instant
// and returns them.
func (e *testEnv) createQuotes(t *testing.T, userID string, n int, at time.Time) []*domain.QuotePost {
	t.Helper()

	quotes := make([]*domain.QuotePost, n)
	for i := range quotes {
		text := fmt.Sprintf("Quote number %d from %s", i, userID)
		q := &domain.QuotePost{
			ID:            id.MustGenerate(id.PrefixQuote),
			UserID:        userID,
			Text:          text,
			Author:        "Anonymous",
			NormalizedKey: normalize.Key(text, "Anonymous"),
			Published:     true,
			CreatedAt:     at,
		}
		require.NoError(t, e.store.CreateQuote(context.Background(), q))
		quotes[i] = q
	}
	return quotes
}
