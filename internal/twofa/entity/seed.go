package entity

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
)

// HexSeed is the lowercase hex form of the shared secret. The decoded bytes
// are the HMAC key for TOTP.
type HexSeed string

// PlaintextFormat says how decrypted plaintext maps to a seed.
type PlaintextFormat string

const (
	// PlaintextRaw treats plaintext as the secret bytes and hex-encodes them.
	PlaintextRaw PlaintextFormat = "raw"
	// PlaintextHex treats plaintext as the hex text of the secret.
	PlaintextHex PlaintextFormat = "hex"
)

// ParsePlaintextFormat reads a configured format. Empty means raw.
func ParsePlaintextFormat(s string) (PlaintextFormat, error) {
	switch f := PlaintextFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", PlaintextRaw:
		return PlaintextRaw, nil
	case PlaintextHex:
		return PlaintextHex, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlaintextFormat, s)
	}
}

// NewHexSeed turns decrypted plaintext into a seed according to format.
// In raw mode every byte counts, whitespace included.
func NewHexSeed(plaintext []byte, format PlaintextFormat) (HexSeed, error) {
	switch format {
	case PlaintextRaw, "":
		if len(plaintext) == 0 {
			return "", ErrInvalidSeed
		}
		return HexSeed(hex.EncodeToString(plaintext)), nil
	case PlaintextHex:
		return ParseHexSeed(string(plaintext))
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlaintextFormat, format)
	}
}

// ParseHexSeed validates a stored hex value.
func ParseHexSeed(s string) (HexSeed, error) {
	s = strings.TrimSpace(s)
	if s == "" || !isHex([]byte(s)) {
		return "", ErrInvalidSeed
	}

	return HexSeed(strings.ToLower(s)), nil
}

// Bytes decodes the seed into the HMAC key.
func (s HexSeed) Bytes() ([]byte, error) {
	b, err := hex.DecodeString(string(s))
	if err != nil || len(b) == 0 {
		return nil, ErrInvalidSeed
	}

	return b, nil
}

// LogValue keeps the secret out of logs.
func (s HexSeed) LogValue() slog.Value {
	return slog.StringValue("[REDACTED]")
}

func isHex(b []byte) bool {
	if len(b)%2 != 0 {
		return false
	}

	for _, c := range b {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}

	return true
}
