package webserver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openhalls/campuswatch/src/CWApi/types"
)

func TestDeriveStatus(t *testing.T) {
	// Status depends on the verdict alone, never on content or reason.
	cases := []struct {
		verdict Verdict
		want    string
	}{
		{Verdict{ShouldApprove: true}, types.StatusApproved},
		{Verdict{ShouldApprove: true, FlagReason: "stray"}, types.StatusApproved},
		{Verdict{ShouldApprove: false}, types.StatusPending},
		{Verdict{ShouldApprove: false, FlagReason: "PII detected"}, types.StatusPending},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, deriveStatus(tc.verdict))
	}
}

func TestValidAlias(t *testing.T) {
	valid := []string{"Student-22", "a", "room_101", "The Watcher", strings.Repeat("x", 30)}
	for _, alias := range valid {
		assert.True(t, validAlias(alias), alias)
	}

	invalid := []string{"", strings.Repeat("x", 31), "no@email", "<script>", "emoji🙂"}
	for _, alias := range invalid {
		assert.False(t, validAlias(alias), alias)
	}
}

func TestResolveIdentity(t *testing.T) {
	ident, ok := resolveIdentity("user-9", "")
	assert.True(t, ok)
	assert.Equal(t, "u:user-9", ident)

	// userId wins when both are present
	ident, ok = resolveIdentity("user-9", "cw_whatever")
	assert.True(t, ok)
	assert.Equal(t, "u:user-9", ident)

	_, ok = resolveIdentity("", "")
	assert.False(t, ok)

	_, ok = resolveIdentity("", "not-a-fingerprint")
	assert.False(t, ok)
}
