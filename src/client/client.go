package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/openhalls/campuswatch/src/shared/webclient"
)

const (
	aliasCookieName = "cw_alias"
	aliasCookieTTL  = 365 * 24 * time.Hour
	feedCacheTTL    = 30 * time.Second
)

// PersistenceError wraps a failed publish insert. The draft is untouched; the
// caller can resubmit without retyping.
type PersistenceError struct{ Err error }

func (e *PersistenceError) Error() string { return fmt.Sprintf("publish failed: %v", e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

// ReactionConflictError marks the non-alarming "already acted" outcome.
type ReactionConflictError struct{ Message string }

func (e *ReactionConflictError) Error() string { return e.Message }

// Verdict is the normalized moderation result.
type Verdict struct {
	ShouldApprove bool   `json:"shouldApprove"`
	FlagReason    string `json:"flagReason,omitempty"`
}

// PublishResult reports how a publish landed.
type PublishResult struct {
	ID         uint64 `json:"id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	FlagReason string `json:"flagReason,omitempty"`
}

// Client is the composer-side SDK: it validates drafts, obtains moderation
// verdicts, publishes records, and tracks optimistic reaction state.
type Client struct {
	apiURL        string
	moderationURL string
	httpClient    *http.Client
	store         *IdentityStore
	cache         FeedCache
}

// New builds a client. store may be nil for read-only use; cache may be nil to
// disable feed caching.
func New(apiURL, moderationURL string, store *IdentityStore, cache FeedCache) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient := webclient.NewDefault(0)
	httpClient.Jar = jar

	c := &Client{
		apiURL:        strings.TrimRight(apiURL, "/"),
		moderationURL: strings.TrimRight(moderationURL, "/"),
		httpClient:    httpClient,
		store:         store,
		cache:         cache,
	}
	if store != nil && store.Alias() != "" {
		c.mirrorAliasCookie(store.Alias())
	}
	return c, nil
}

// SetAlias persists the alias and mirrors it into the cookie jar for
// cross-session consistency. Empty input is a no-op.
func (c *Client) SetAlias(alias string) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.SetAlias(alias); err != nil {
		return err
	}
	if stored := c.store.Alias(); stored != "" {
		c.mirrorAliasCookie(stored)
	}
	return nil
}

func (c *Client) mirrorAliasCookie(alias string) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return
	}
	c.httpClient.Jar.SetCookies(u, []*http.Cookie{{
		Name:    aliasCookieName,
		Value:   url.QueryEscape(alias),
		Path:    "/",
		Expires: time.Now().Add(aliasCookieTTL),
	}})
}

// Publish runs the full pipeline: validate, moderate, record. Validation
// failures never reach the network. The moderation step cannot fail the
// publish: any gateway trouble resolves to approval. An insert failure comes
// back as a PersistenceError and the draft stays intact.
func (c *Client) Publish(ctx context.Context, d Draft) (*PublishResult, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	verdict := c.moderate(ctx, strings.TrimSpace(d.Text))

	payload := map[string]interface{}{
		"body":    strings.TrimSpace(d.Text),
		"alias":   strings.TrimSpace(d.Alias),
		"verdict": verdict,
	}
	if d.ParentID != nil {
		payload["parentId"] = *d.ParentID
	}

	var result PublishResult
	if err := c.post(ctx, c.apiURL+"/v1/posts", payload, &result); err != nil {
		return nil, &PersistenceError{Err: err}
	}
	return &result, nil
}

// moderate calls the gateway. Fail-open on this side too: if the gateway is
// unreachable or answers garbage, the verdict is approval. A 400 (empty
// content) is passed through as-is, though Validate should prevent it.
func (c *Client) moderate(ctx context.Context, text string) Verdict {
	approve := Verdict{ShouldApprove: true}

	body, _ := json.Marshal(map[string]string{"content": text})
	req, err := http.NewRequestWithContext(ctx, "POST", c.moderationURL+"/moderate-content", bytes.NewReader(body))
	if err != nil {
		return approve
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("moderation gateway unreachable, failing open: %v", err)
		return approve
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil || (resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest) {
		log.Printf("moderation gateway error (%d), failing open", resp.StatusCode)
		return approve
	}

	var v Verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Printf("moderation gateway returned unparseable verdict, failing open: %v", err)
		return approve
	}
	return v
}

// React applies an optimistic increment to state, calls the atomic backend
// procedure, and rolls the increment back exactly if the backend refuses.
func (c *Client) React(ctx context.Context, state *ReactionState, postID uint64, kind string) error {
	update := state.Apply(kind)

	payload := map[string]interface{}{"postId": postID, "kind": kind}
	c.attachIdentity(payload)

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.post(ctx, c.apiURL+"/v1/reactions", payload, &result); err != nil {
		update.Rollback()
		return err
	}
	if !result.Success {
		update.Rollback()
		return &ReactionConflictError{Message: result.Message}
	}
	update.Confirm()
	return nil
}

// VotePoll mirrors React for poll options.
func (c *Client) VotePoll(ctx context.Context, state *ReactionState, pollID uint64, optionIndex int) error {
	kind := fmt.Sprintf("option-%d", optionIndex)
	update := state.Apply(kind)

	payload := map[string]interface{}{"pollId": pollID, "optionIndex": optionIndex}
	c.attachIdentity(payload)

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.post(ctx, c.apiURL+"/v1/polls/vote", payload, &result); err != nil {
		update.Rollback()
		return err
	}
	if !result.Success {
		update.Rollback()
		return &ReactionConflictError{Message: result.Message}
	}
	update.Confirm()
	return nil
}

// FetchPosts returns a feed page, served from the cache while fresh.
func (c *Client) FetchPosts(ctx context.Context, page int) (json.RawMessage, error) {
	key := fmt.Sprintf("posts:%d", page)
	if c.cache != nil && !c.cache.IsStale(key, feedCacheTTL) {
		if v, ok := c.cache.Get(key); ok {
			return v.(json.RawMessage), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/v1/posts?page=%d", c.apiURL, page), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	out := json.RawMessage(raw)
	if c.cache != nil {
		c.cache.Set(key, out, time.Now())
	}
	return out, nil
}

func (c *Client) attachIdentity(payload map[string]interface{}) {
	if c.store != nil {
		payload["fingerprint"] = c.store.Fingerprint()
	}
}

func (c *Client) post(ctx context.Context, url string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.store != nil {
		req.Header.Set("X-Fingerprint", c.store.Fingerprint())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Err string `json:"err"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Err != "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, apiErr.Err)
		}
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}
