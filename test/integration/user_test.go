package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votease/api/internal/core/domain"
)

func TestUserProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	userID, token := app.createUserAndToken(t, "user")

	resp := app.doRequest(t, "GET", "/api/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = app.doRequest(t, "GET", "/api/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me domain.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	resp.Body.Close()
	assert.Equal(t, userID, me.ID)

	resp = app.doRequest(t, "PATCH", "/api/me", token, map[string]interface{}{
		"name":   "Renamed User",
		"avatar": "https://img/new.png",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = app.doRequest(t, "GET", "/api/me", token, nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	resp.Body.Close()
	assert.Equal(t, "Renamed User", me.Name)
	assert.Equal(t, "https://img/new.png", me.Avatar)
}

// TestProfileEditDoesNotRewriteHistory checks the creator snapshot on
// existing polls survives a profile rename.
func TestProfileEditDoesNotRewriteHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, token := app.createUserAndToken(t, "user")
	poll := app.createPoll(t, token, "Snapshot Poll")
	originalName := poll.CreatorName

	resp := app.doRequest(t, "PATCH", "/api/me", token, map[string]interface{}{
		"name": "Someone Else",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = app.doRequest(t, "GET", fmt.Sprintf("/api/polls/%s", poll.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched domain.Poll
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	resp.Body.Close()
	assert.Equal(t, originalName, fetched.CreatorName)
}
