package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrEmptySecret is returned when an HMAC is built without a key.
var ErrEmptySecret = errors.New("hash: hmac secret is empty")

// HMACSHA256 is a Hash keyed with a static secret.
type HMACSHA256 struct {
	key []byte
}

// NewHMACSHA256 returns a Hash keyed with secret.
func NewHMACSHA256(secret string) (*HMACSHA256, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &HMACSHA256{key: []byte(secret)}, nil
}

// Sum returns the lowercase hex HMAC-SHA256 of data.
func (h *HMACSHA256) Sum(data []byte) string {
	return hex.EncodeToString(h.mac(data))
}

// Equal reports whether digest is the hex HMAC of data.
func (h *HMACSHA256) Equal(digest string, data []byte) bool {
	raw, err := hex.DecodeString(digest)
	if err != nil {
		return false
	}
	return hmac.Equal(raw, h.mac(data))
}

func (h *HMACSHA256) mac(data []byte) []byte {
	m := hmac.New(sha256.New, h.key)
	m.Write(data)
	return m.Sum(nil)
}
