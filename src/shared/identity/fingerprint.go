package identity

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

const fingerprintPrefix = "cw_"

// NewFingerprint generates an anonymous pseudo-identity string. The value is
// opaque: a uuid seeded with the creation time, digested and base58-encoded so
// it is short enough for a cookie and safe in URLs.
func NewFingerprint() string {
	seed := uuid.NewString() + "|" + strconv.FormatInt(time.Now().UnixNano(), 10)
	h := xxhash.New64()
	_, _ = h.Write([]byte(seed))
	sum := make([]byte, 8)
	binary.BigEndian.PutUint64(sum, h.Sum64())
	return fingerprintPrefix + base58.Encode(sum)
}

// ValidFingerprint reports whether s looks like a fingerprint we issued.
func ValidFingerprint(s string) bool {
	if !strings.HasPrefix(s, fingerprintPrefix) {
		return false
	}
	raw, err := base58.Decode(strings.TrimPrefix(s, fingerprintPrefix))
	if err != nil {
		return false
	}
	return len(raw) == 8
}
