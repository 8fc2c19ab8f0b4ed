package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedeck/quotedeck-server/internal/domain"
	"github.com/quotedeck/quotedeck-server/internal/ratelimit"
)

func TestListBadges_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/badges")

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Badges []BadgeResponse `json:"badges"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.Badges)
	assert.Equal(t, domain.BadgeCurator, body.Badges[0].ID)
	assert.Equal(t, 30, body.Badges[0].RewardDays)
}

func TestGetBadgeProgress_UnknownBadge(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.issueToken(t, "7001")

	resp := ts.api.Get("/api/v1/badges/no-such-badge/progress", "Authorization: Bearer "+token)

	assert.Equal(t, http.StatusNotFound, resp.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestClaimBadge_NotMetIsStructuredResult(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.issueToken(t, "7002")

	resp := ts.api.Post("/api/v1/badges/"+domain.BadgeCurator+"/claim", "Authorization: Bearer "+token)

	// Business outcomes ride in the result body, not HTTP errors.
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var result domain.ClaimResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, domain.ClaimReasonRequirementsNotMet, result.Reason)
	require.NotNil(t, result.Progress)
}

func TestClaimBadge_RateLimited(t *testing.T) {
	ts := setupTestServerWithLimiter(t, ratelimit.PerMinute(60, 1))
	token, _ := ts.issueToken(t, "7003")
	authHeader := "Authorization: Bearer " + token

	resp := ts.api.Post("/api/v1/badges/"+domain.BadgeCurator+"/claim", authHeader)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/badges/"+domain.BadgeCurator+"/claim", authHeader)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}
