package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedeck/quotedeck-server/internal/errors"
)

func TestFavoriteAdd_DeduplicatesVariants(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "1001")
	ctx := context.Background()

	first, err := env.favorites.Add(ctx, user.ExternalID, "Hello — world...", "Jane")
	require.NoError(t, err)

	// A typographic variant of the same quote maps to the same key.
	second, err := env.favorites.Add(ctx, user.ExternalID, "hello-world", "jane")
	require.NoError(t, err)
	assert.Equal(t, first.NormalizedKey, second.NormalizedKey)

	favs, err := env.favorites.List(ctx, user.ExternalID)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestFavoriteAdd_Validation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "1001")
	ctx := context.Background()

	_, err := env.favorites.Add(ctx, user.ExternalID, "   ...   ", "Jane")
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = env.favorites.Add(ctx, "no-such-user", "Carpe diem", "Horace")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestFavoriteRemove_AbsentIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "1001")

	_, err := env.favorites.Remove(context.Background(), user.ExternalID, "Never liked", "Nobody")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestFavoriteRemove(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "1001")
	ctx := context.Background()

	_, err := env.favorites.Add(ctx, user.ExternalID, "Carpe diem", "Horace")
	require.NoError(t, err)

	removed, err := env.favorites.Remove(ctx, user.ExternalID, "carpe diem", "horace")
	require.NoError(t, err)
	assert.Equal(t, "Carpe diem", removed.Text)

	favs, err := env.favorites.List(ctx, user.ExternalID)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

// The full journey: two users like punctuation variants of one quote, and
// the aggregate count sees a single quote with two distinct likers.
func TestFavorites_EndToEndDeduplication(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "1001")
	bob := env.createUser(t, "1002")
	ctx := context.Background()

	_, err := env.favorites.Add(ctx, alice.ExternalID, "Life is hard.", "Unknown")
	require.NoError(t, err)
	_, err = env.favorites.Add(ctx, alice.ExternalID, "life is hard", "unknown")
	require.NoError(t, err)

	favs, err := env.favorites.List(ctx, alice.ExternalID)
	require.NoError(t, err)
	require.Len(t, favs, 1, "variant like must not create a second favorite")

	counts, err := env.favorites.CountLikers(ctx, []QuoteRef{{Text: "LIFE IS HARD", Author: "Unknown"}})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, counts)

	_, err = env.favorites.Add(ctx, bob.ExternalID, "Life is hard…", "Unknown")
	require.NoError(t, err)

	counts, err = env.favorites.CountLikers(ctx, []QuoteRef{
		{Text: "Life is hard.", Author: "Unknown"},
		{Text: "Nobody likes this", Author: "Unknown"},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, counts)
}
