package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavorites_RoundTrip(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.issueToken(t, "6001")
	authHeader := "Authorization: Bearer " + token

	resp := ts.api.Post("/api/v1/favorites", authHeader, map[string]any{
		"text":   "Seize the day.",
		"author": "Horace",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var fav FavoriteResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &fav))
	assert.Equal(t, "Seize the day.", fav.Text)

	// Liking a punctuation variant lands on the same favorite.
	resp = ts.api.Post("/api/v1/favorites", authHeader, map[string]any{
		"text":   "seize the day",
		"author": "HORACE",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Get("/api/v1/favorites", authHeader)
	require.Equal(t, http.StatusOK, resp.Code)

	var list struct {
		Favorites []FavoriteResponse `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Len(t, list.Favorites, 1)

	query := url.Values{"text": {"Seize the day."}, "author": {"Horace"}}
	resp = ts.api.Delete("/api/v1/favorites?"+query.Encode(), authHeader)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/favorites", authHeader)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Empty(t, list.Favorites)
}

func TestCountLikers_PositionalCounts(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.issueToken(t, "6002")

	resp := ts.api.Post("/api/v1/favorites", "Authorization: Bearer "+token, map[string]any{
		"text":   "Fortune favors the bold.",
		"author": "Virgil",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	// Counting is public and matches request order; unknown quotes count 0.
	resp = ts.api.Post("/api/v1/quotes/like-counts", map[string]any{
		"quotes": []map[string]any{
			{"text": "FORTUNE FAVORS THE BOLD", "author": "virgil"},
			{"text": "Never liked by anyone.", "author": "Nobody"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body struct {
		Counts []int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, []int{1, 0}, body.Counts)
}
