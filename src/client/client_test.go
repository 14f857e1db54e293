package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorderServer emulates the publication API: status derives from the verdict
// the composer sends, exactly as the real recorder does.
func recorderServer(t *testing.T, fail bool) (*httptest.Server, *[]map[string]interface{}) {
	t.Helper()
	var inserts []map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/posts":
			if fail {
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"err": "insert failed"})
				return
			}
			var req map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			inserts = append(inserts, req)

			verdict := req["verdict"].(map[string]interface{})
			status := "pending"
			message := "Your post was flagged and sent for review"
			if verdict["shouldApprove"] == true {
				status = "approved"
				message = "Your post is live on the feed"
			}
			w.WriteHeader(http.StatusCreated)
			resp := map[string]interface{}{"id": 1, "status": status, "message": message}
			if reason, ok := verdict["flagReason"].(string); ok && reason != "" {
				resp["flagReason"] = reason
			}
			_ = json.NewEncoder(w).Encode(resp)
		case "/v1/reactions":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "already reacted"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &inserts
}

func gatewayServer(t *testing.T, verdict Verdict) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/moderate-content", r.URL.Path)
		_ = json.NewEncoder(w).Encode(verdict)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, apiURL, modURL string) *Client {
	t.Helper()
	store, err := OpenIdentityStore(filepath.Join(t.TempDir(), "identity.json"))
	require.NoError(t, err)
	c, err := New(apiURL, modURL, store, NewMemoryCache())
	require.NoError(t, err)
	return c
}

func TestPublishCleanApprove(t *testing.T) {
	api, inserts := recorderServer(t, false)
	gateway := gatewayServer(t, Verdict{ShouldApprove: true})
	c := newTestClient(t, api.URL, gateway.URL)

	res, err := c.Publish(context.Background(), Draft{
		Text:  "The cafeteria ran out of food again",
		Alias: "Student-22",
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", res.Status)
	assert.Contains(t, res.Message, "live on the feed")
	require.Len(t, *inserts, 1)
}

func TestPublishFlagged(t *testing.T) {
	api, _ := recorderServer(t, false)
	gateway := gatewayServer(t, Verdict{ShouldApprove: false, FlagReason: "PII detected"})
	c := newTestClient(t, api.URL, gateway.URL)

	res, err := c.Publish(context.Background(), Draft{Text: "some report", Alias: "Student-22"})
	require.NoError(t, err)
	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, "PII detected", res.FlagReason)
	assert.Contains(t, res.Message, "flagged")
}

func TestPublishJudgeOutageFailsOpen(t *testing.T) {
	api, inserts := recorderServer(t, false)

	// Gateway that is already down
	gateway := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	gateway.Close()

	c := newTestClient(t, api.URL, gateway.URL)

	res, err := c.Publish(context.Background(), Draft{Text: "still publishes", Alias: "Student-22"})
	require.NoError(t, err)
	assert.Equal(t, "approved", res.Status)

	require.Len(t, *inserts, 1)
	verdict := (*inserts)[0]["verdict"].(map[string]interface{})
	assert.Equal(t, true, verdict["shouldApprove"])
}

func TestPublishValidationNeverHitsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL, srv.URL)
	_, err := c.Publish(context.Background(), Draft{Text: "   ", Alias: "x"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.False(t, called, "invalid draft must not reach the network")
}

func TestPublishInsertFailureIsPersistenceError(t *testing.T) {
	api, _ := recorderServer(t, true)
	gateway := gatewayServer(t, Verdict{ShouldApprove: true})
	c := newTestClient(t, api.URL, gateway.URL)

	_, err := c.Publish(context.Background(), Draft{Text: "will not stick", Alias: "Student-22"})
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
}

func TestReactConflictRollsBack(t *testing.T) {
	api, _ := recorderServer(t, false)
	gateway := gatewayServer(t, Verdict{ShouldApprove: true})
	c := newTestClient(t, api.URL, gateway.URL)

	state := NewReactionState(map[string]int{"like": 2}, nil)
	err := c.React(context.Background(), state, 1, "like")

	var conflict *ReactionConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "already reacted", conflict.Message)
	assert.Equal(t, 2, state.Count("like"), "optimistic increment must be exactly reverted")
	assert.False(t, state.HasReacted("like"))
}
