package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFingerprint(t *testing.T) {
	fp := NewFingerprint()
	assert.True(t, strings.HasPrefix(fp, "cw_"))
	assert.True(t, ValidFingerprint(fp))

	// Two generations should not collide
	assert.NotEqual(t, fp, NewFingerprint())
}

func TestValidFingerprint(t *testing.T) {
	bad := []string{"", "cw_", "cw_0OIl", "nope", "cw_!!!", "u:admin"}
	for _, s := range bad {
		assert.False(t, ValidFingerprint(s), s)
	}
}
