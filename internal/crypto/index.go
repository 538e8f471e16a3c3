package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Indexer derives blind indexes: deterministic, non-reversible digests of
// normalized plaintext used for equality lookup on encrypted columns. Its
// key must be distinct from the encryption key.
type Indexer struct {
	key []byte
}

// NewIndexer builds an indexer around the blind-index secret.
func NewIndexer(key []byte) *Indexer {
	return &Indexer{key: key}
}

// BlindIndex normalizes the value (trim + lowercase) and returns the
// lowercase hex HMAC-SHA256 digest, 64 characters. Empty in, empty out.
// The same normalized input always yields the same digest.
func (ix *Indexer) BlindIndex(v string) string {
	if v == "" {
		return ""
	}
	normalized := strings.ToLower(strings.TrimSpace(v))
	mac := hmac.New(sha256.New, ix.key)
	mac.Write([]byte(normalized))
	return hex.EncodeToString(mac.Sum(nil))
}
