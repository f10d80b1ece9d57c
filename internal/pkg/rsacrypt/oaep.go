package rsacrypt

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"strings"

	// registers the hash implementations selectable by name.
	_ "crypto/sha1" //nolint:gosec // OAEP with SHA-1 is still in use by clients
	_ "crypto/sha256"
	_ "crypto/sha512"
)

// ErrUnsupportedHash is returned for an OAEP hash name that is not known.
var ErrUnsupportedHash = errors.New("rsacrypt: unsupported OAEP hash")

// HashFromName maps "sha1", "sha256" or "sha512" to a crypto.Hash.
// An empty name selects SHA-256.
func HashFromName(name string) (crypto.Hash, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sha256", "sha-256":
		return crypto.SHA256, nil
	case "sha1", "sha-1":
		return crypto.SHA1, nil
	case "sha512", "sha-512":
		return crypto.SHA512, nil
	default:
		return 0, ErrUnsupportedHash
	}
}

// OAEP decrypts RSA-OAEP ciphertext with the key served by a KeyLoader.
// MGF1 uses the same hash as OAEP and the label is empty.
type OAEP struct {
	loader KeyLoader
	hash   crypto.Hash
}

// NewOAEP returns an OAEP decrypter using the named hash.
func NewOAEP(loader KeyLoader, hashName string) (*OAEP, error) {
	if loader == nil {
		return nil, errors.New("rsacrypt: nil key loader")
	}

	h, err := HashFromName(hashName)
	if err != nil {
		return nil, err
	}

	return &OAEP{loader: loader, hash: h}, nil
}

// Decrypt loads the private key and decrypts ciphertext.
func (o *OAEP) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	key, err := o.loader.PrivateKey(ctx)
	if err != nil {
		return nil, err
	}

	return rsa.DecryptOAEP(o.hash.New(), nil, key, ciphertext, nil)
}

// EncryptOAEP encrypts plaintext for pub with the given hash.
func EncryptOAEP(pub *rsa.PublicKey, h crypto.Hash, plaintext []byte) ([]byte, error) {
	return rsa.EncryptOAEP(h.New(), rand.Reader, pub, plaintext, nil)
}
