package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhalls/campuswatch/src/shared/identity"
)

func TestAliasRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")

	s, err := OpenIdentityStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SetAlias("  Student-22  "))

	// Simulated reload
	s2, err := OpenIdentityStore(path)
	require.NoError(t, err)
	assert.Equal(t, "Student-22", s2.Alias())
}

func TestEmptyAliasIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")

	s, err := OpenIdentityStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SetAlias("Watcher"))

	require.NoError(t, s.SetAlias(""))
	require.NoError(t, s.SetAlias("   \t"))
	assert.Equal(t, "Watcher", s.Alias())

	s2, err := OpenIdentityStore(path)
	require.NoError(t, err)
	assert.Equal(t, "Watcher", s2.Alias())
}

func TestFingerprintLazyAndStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")

	s, err := OpenIdentityStore(path)
	require.NoError(t, err)

	fp := s.Fingerprint()
	assert.True(t, identity.ValidFingerprint(fp))
	assert.Equal(t, fp, s.Fingerprint(), "second read must not regenerate")

	// Survives reload
	s2, err := OpenIdentityStore(path)
	require.NoError(t, err)
	assert.Equal(t, fp, s2.Fingerprint())
}

func TestMissingStoreFileIsEmpty(t *testing.T) {
	s, err := OpenIdentityStore(filepath.Join(t.TempDir(), "nested", "dir", "identity.json"))
	require.NoError(t, err)
	assert.Empty(t, s.Alias())
}
