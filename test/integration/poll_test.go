package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votease/api/internal/core/domain"
)

func (app *TestApp) doRequest(t *testing.T, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func (app *TestApp) createPoll(t *testing.T, token string, title string) domain.Poll {
	t.Helper()

	payload := map[string]interface{}{
		"title":      title,
		"statement":  "Pick one",
		"options":    []string{"Red", "Blue"},
		"start_date": time.Now().Format(time.RFC3339),
		"end_date":   time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	}
	resp := app.doRequest(t, "POST", "/api/polls", token, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var poll domain.Poll
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&poll))
	resp.Body.Close()
	return poll
}

// TestPollLifecycle walks create -> get -> edit -> delete over HTTP.
func TestPollLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	creatorID, token := app.createUserAndToken(t, "user")

	// Creating without auth is rejected.
	resp := app.doRequest(t, "POST", "/api/polls", "", map[string]interface{}{"title": "x"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	poll := app.createPoll(t, token, "Lifecycle Test Poll")
	assert.NotEqual(t, uuid.Nil, poll.ID)
	assert.Equal(t, creatorID, poll.CreatorID)
	assert.Equal(t, "active", poll.Status)
	assert.False(t, poll.Flagged)
	assert.Len(t, poll.Options, 2)

	// Anyone can read it back, no auth needed.
	resp = app.doRequest(t, "GET", fmt.Sprintf("/api/polls/%s", poll.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched domain.Poll
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	resp.Body.Close()
	assert.Equal(t, poll.ID, fetched.ID)
	assert.Equal(t, "Lifecycle Test Poll", fetched.Title)

	// Partial edit keeps the untouched fields.
	resp = app.doRequest(t, "PATCH", fmt.Sprintf("/api/polls/%s", poll.ID), token, map[string]interface{}{
		"statement": "Updated statement",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = app.doRequest(t, "GET", fmt.Sprintf("/api/polls/%s", poll.ID), "", nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	resp.Body.Close()
	assert.Equal(t, "Updated statement", fetched.Statement)
	assert.Equal(t, "Lifecycle Test Poll", fetched.Title)

	// A different user may not edit or delete.
	_, strangerToken := app.createUserAndToken(t, "user")
	resp = app.doRequest(t, "PATCH", fmt.Sprintf("/api/polls/%s", poll.ID), strangerToken, map[string]interface{}{
		"title": "Hijacked",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = app.doRequest(t, "DELETE", fmt.Sprintf("/api/polls/%s", poll.ID), strangerToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = app.doRequest(t, "DELETE", fmt.Sprintf("/api/polls/%s", poll.ID), token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = app.doRequest(t, "GET", fmt.Sprintf("/api/polls/%s", poll.ID), "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestPollValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, token := app.createUserAndToken(t, "user")

	resp := app.doRequest(t, "POST", "/api/polls", token, map[string]interface{}{
		"title":      "",
		"options":    []string{"A", "B"},
		"start_date": time.Now().Format(time.RFC3339),
		"end_date":   time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = app.doRequest(t, "POST", "/api/polls", token, map[string]interface{}{
		"title":      "Only one option",
		"options":    []string{"A"},
		"start_date": time.Now().Format(time.RFC3339),
		"end_date":   time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = app.doRequest(t, "POST", "/api/polls", token, map[string]interface{}{
		"title":      "Backwards window",
		"options":    []string{"A", "B"},
		"start_date": time.Now().Add(time.Hour).Format(time.RFC3339),
		"end_date":   time.Now().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// TestFlagPoll checks the admin-only moderation round trip and that the
// flagged filter on the listing follows it.
func TestFlagPoll(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, creatorToken := app.createUserAndToken(t, "user")
	_, adminToken := app.createUserAndToken(t, "admin")

	poll := app.createPoll(t, creatorToken, "Moderated Poll")

	// Creators are not moderators.
	resp := app.doRequest(t, "POST", fmt.Sprintf("/api/polls/%s/flag", poll.ID), creatorToken, map[string]interface{}{
		"flag_type": "flagged",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = app.doRequest(t, "POST", fmt.Sprintf("/api/polls/%s/flag", poll.ID), adminToken, map[string]interface{}{
		"flag_type": "bogus",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = app.doRequest(t, "POST", fmt.Sprintf("/api/polls/%s/flag", poll.ID), adminToken, map[string]interface{}{
		"flag_type": "flagged",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = app.doRequest(t, "GET", "/api/polls?flagged=true", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var flaggedPolls []*domain.Poll
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&flaggedPolls))
	resp.Body.Close()
	require.Len(t, flaggedPolls, 1)
	assert.Equal(t, poll.ID, flaggedPolls[0].ID)
	assert.Equal(t, "inactive", flaggedPolls[0].Status)

	// Reinstating restores the active, unflagged state.
	resp = app.doRequest(t, "POST", fmt.Sprintf("/api/polls/%s/flag", poll.ID), adminToken, map[string]interface{}{
		"flag_type": "active",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = app.doRequest(t, "GET", "/api/polls?flagged=true", "", nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&flaggedPolls))
	resp.Body.Close()
	assert.Empty(t, flaggedPolls)
}

func TestListPollsFilters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	aliceID, aliceToken := app.createUserAndToken(t, "user")
	_, bobToken := app.createUserAndToken(t, "user")

	app.createPoll(t, aliceToken, "Alice Poll 1")
	app.createPoll(t, aliceToken, "Alice Poll 2")
	app.createPoll(t, bobToken, "Bob Poll")

	resp := app.doRequest(t, "GET", "/api/polls", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []*domain.Poll
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	resp.Body.Close()
	assert.Len(t, all, 3)

	resp = app.doRequest(t, "GET", fmt.Sprintf("/api/polls?creator_id=%s", aliceID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var alicePolls []*domain.Poll
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&alicePolls))
	resp.Body.Close()
	require.Len(t, alicePolls, 2)
	for _, p := range alicePolls {
		assert.Equal(t, aliceID, p.CreatorID)
	}

	resp = app.doRequest(t, "GET", "/api/polls?status=inactive", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var inactive []*domain.Poll
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&inactive))
	resp.Body.Close()
	assert.Empty(t, inactive)
}
