package client

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxPostChars  = 500
	maxReplyChars = 2000
	maxAliasChars = 30
)

var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)

// ValidationError reports a draft field that violates its shape constraints.
// It is raised before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Draft is the ephemeral client-held composition. Nothing is persisted until
// Publish succeeds.
type Draft struct {
	Text     string
	Alias    string
	ParentID *uint64 // set for replies
}

// Validate enforces the composer preconditions: non-empty trimmed text within
// the per-type bound, non-empty alias with a restricted charset.
func (d Draft) Validate() error {
	text := strings.TrimSpace(d.Text)
	if text == "" {
		return &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	limit := maxPostChars
	if d.ParentID != nil {
		limit = maxReplyChars
	}
	if utf8.RuneCountInString(text) > limit {
		return &ValidationError{Field: "text", Reason: fmt.Sprintf("must be at most %d characters", limit)}
	}

	alias := strings.TrimSpace(d.Alias)
	if alias == "" {
		return &ValidationError{Field: "alias", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(alias) > maxAliasChars {
		return &ValidationError{Field: "alias", Reason: fmt.Sprintf("must be at most %d characters", maxAliasChars)}
	}
	if !aliasPattern.MatchString(alias) {
		return &ValidationError{Field: "alias", Reason: "only letters, digits, space, hyphen and underscore allowed"}
	}
	return nil
}
