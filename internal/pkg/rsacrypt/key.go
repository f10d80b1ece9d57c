package rsacrypt

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNoPEMBlock is returned when the input holds no PEM block.
	ErrNoPEMBlock = errors.New("rsacrypt: no PEM block found")
	// ErrNotRSAKey is returned when a PEM block holds a non-RSA key.
	ErrNotRSAKey = errors.New("rsacrypt: key is not an RSA key")
)

// KeyLoader provides the private key used for decryption.
type KeyLoader interface {
	PrivateKey(ctx context.Context) (*rsa.PrivateKey, error)
}

// FileKeyLoader reads and parses the key file on every call, so a replaced
// file is picked up without a restart.
type FileKeyLoader struct {
	path string
}

// NewFileKeyLoader returns a loader for the PEM file at path.
func NewFileKeyLoader(path string) *FileKeyLoader {
	return &FileKeyLoader{path: path}
}

// PrivateKey implements KeyLoader.
func (l *FileKeyLoader) PrivateKey(ctx context.Context) (*rsa.PrivateKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	return ParsePrivateKeyPEM(data)
}

// StaticKeyLoader serves a key parsed once at construction.
type StaticKeyLoader struct {
	key *rsa.PrivateKey
}

// NewStaticKeyLoader parses pemData and returns a loader that always serves it.
func NewStaticKeyLoader(pemData []byte) (*StaticKeyLoader, error) {
	key, err := ParsePrivateKeyPEM(pemData)
	if err != nil {
		return nil, err
	}

	return &StaticKeyLoader{key: key}, nil
}

// PrivateKey implements KeyLoader.
func (l *StaticKeyLoader) PrivateKey(context.Context) (*rsa.PrivateKey, error) {
	return l.key, nil
}

// ParsePrivateKeyPEM parses the first PEM block in data as an RSA private key.
func ParsePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrNoPEMBlock
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		return parsePKCS8(block.Bytes)
	default:
		if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
			return key, nil
		}
		return parsePKCS8(block.Bytes)
	}
}

func parsePKCS8(der []byte) (*rsa.PrivateKey, error) {
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSAKey
	}

	return key, nil
}

// ParsePublicKeyPEM parses the first PEM block in data as an RSA public key.
func ParsePublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrNoPEMBlock
	}

	if block.Type == "RSA PUBLIC KEY" {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, ErrNotRSAKey
	}

	return key, nil
}

// EncodePrivateKeyPEM encodes key as a PKCS#8 PEM block.
func EncodePrivateKeyPEM(key *rsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// EncodePublicKeyPEM encodes key as a PKIX PEM block.
func EncodePublicKeyPEM(key *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, err
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}
