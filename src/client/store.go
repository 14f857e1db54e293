package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/openhalls/campuswatch/src/shared/identity"
)

// IdentityStore is the client-local persistent storage analog: a small JSON
// file holding the anonymous fingerprint and display alias under fixed keys.
type IdentityStore struct {
	path string
	mu   sync.Mutex
	data storeData
}

type storeData struct {
	Fingerprint string `json:"cw_fingerprint"`
	Alias       string `json:"cw_alias"`
}

// OpenIdentityStore loads the store at path, creating parent directories as
// needed. A missing file is an empty store, not an error.
func OpenIdentityStore(path string) (*IdentityStore, error) {
	s := &IdentityStore{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		// Corrupt store: start fresh rather than failing every session.
		s.data = storeData{}
	}
	return s, nil
}

// Fingerprint returns the stored pseudo-identity, generating and persisting
// one lazily on first use.
func (s *IdentityStore) Fingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Fingerprint == "" {
		s.data.Fingerprint = identity.NewFingerprint()
		_ = s.save()
	}
	return s.data.Fingerprint
}

func (s *IdentityStore) Alias() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Alias
}

// SetAlias stores the trimmed alias. An empty or all-whitespace value is a
// no-op: the prior alias is retained.
func (s *IdentityStore) SetAlias(alias string) error {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Alias = alias
	return s.save()
}

func (s *IdentityStore) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}
