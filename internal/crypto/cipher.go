// Package crypto implements field-level protection for PII columns:
// reversible AES-GCM encryption for storage, and a keyed blind index for
// equality search on encrypted columns without decrypting rows.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// ctPrefix tags every ciphertext this package produces. The tag makes
// encryption idempotent: a value that already carries it is passed through
// untouched, so double-processing a row cannot corrupt it.
const ctPrefix = "enc:v1:"

// Cipher encrypts and decrypts individual text fields with AES-256-GCM.
// The key is fixed at construction and the value is safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a field cipher from 32 bytes of key material.
func NewCipher(key []byte) (*Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("field cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("field cipher: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// EncryptField encrypts a plaintext field value. Empty in, empty out.
// Values already carrying the ciphertext tag are returned unchanged.
func (c *Cipher) EncryptField(v string) (string, error) {
	if v == "" {
		return "", nil
	}
	if strings.HasPrefix(v, ctPrefix) {
		return v, nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("encrypt field: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(v), nil)
	return ctPrefix + base64.RawStdEncoding.EncodeToString(sealed), nil
}

// DecryptField reverses EncryptField. Untagged, malformed or foreign
// ciphertext is returned unchanged: rows written before encryption was
// turned on stay readable. This fallback is lossy-safe, not a security
// boundary.
func (c *Cipher) DecryptField(v string) string {
	if !strings.HasPrefix(v, ctPrefix) {
		return v
	}
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(v, ctPrefix))
	if err != nil {
		return v
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns {
		return v
	}
	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return v
	}
	return string(plain)
}

// IsEncrypted reports whether a stored value carries the ciphertext tag.
func IsEncrypted(v string) bool {
	return strings.HasPrefix(v, ctPrefix)
}
