package rsacrypt_test

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/shandysiswandi/seedotp/internal/pkg/rsacrypt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func pkcs1PEM(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
}

func TestParsePrivateKeyPEM(t *testing.T) {
	t.Parallel()

	key := newKey(t)
	pkcs8, err := rsacrypt.EncodePrivateKeyPEM(key)
	require.NoError(t, err)

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	ecDER, err := x509.MarshalPKCS8PrivateKey(ecKey)
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    []byte
		wantErr error
		anyErr  bool
	}{
		{name: "pkcs1", data: pkcs1PEM(key)},
		{name: "pkcs8", data: pkcs8},
		{name: "no pem", data: []byte("not a key"), wantErr: rsacrypt.ErrNoPEMBlock},
		{name: "ec key", data: pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: ecDER}), wantErr: rsacrypt.ErrNotRSAKey},
		{name: "garbage der", data: pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: []byte{1, 2, 3}}), anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := rsacrypt.ParsePrivateKeyPEM(tt.data)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.True(t, key.Equal(got))
			}
		})
	}
}

func TestParsePublicKeyPEM(t *testing.T) {
	t.Parallel()

	key := newKey(t)
	pkix, err := rsacrypt.EncodePublicKeyPEM(&key.PublicKey)
	require.NoError(t, err)
	pkcs1 := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey)})

	for _, data := range [][]byte{pkix, pkcs1} {
		got, err := rsacrypt.ParsePublicKeyPEM(data)
		require.NoError(t, err)
		assert.True(t, key.PublicKey.Equal(got))
	}

	_, err = rsacrypt.ParsePublicKeyPEM([]byte("nope"))
	assert.ErrorIs(t, err, rsacrypt.ErrNoPEMBlock)
}

func TestOAEP_RoundTrip(t *testing.T) {
	t.Parallel()

	key := newKey(t)
	loader, err := rsacrypt.NewStaticKeyLoader(pkcs1PEM(key))
	require.NoError(t, err)

	plaintext := []byte("3132333435363738393031323334353637383930")

	tests := []struct {
		name    string
		encHash crypto.Hash
		decHash string
		wantErr bool
	}{
		{name: "sha256 default", encHash: crypto.SHA256, decHash: ""},
		{name: "sha1", encHash: crypto.SHA1, decHash: "sha1"},
		{name: "sha512", encHash: crypto.SHA512, decHash: "SHA-512"},
		{name: "hash mismatch", encHash: crypto.SHA1, decHash: "sha256", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ct, err := rsacrypt.EncryptOAEP(&key.PublicKey, tt.encHash, plaintext)
			require.NoError(t, err)

			dec, err := rsacrypt.NewOAEP(loader, tt.decHash)
			require.NoError(t, err)

			got, err := dec.Decrypt(context.Background(), ct)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, plaintext, got)
		})
	}
}

func TestOAEP_Decrypt_Tampered(t *testing.T) {
	t.Parallel()

	key := newKey(t)
	loader, err := rsacrypt.NewStaticKeyLoader(pkcs1PEM(key))
	require.NoError(t, err)
	dec, err := rsacrypt.NewOAEP(loader, "sha256")
	require.NoError(t, err)

	ct, err := rsacrypt.EncryptOAEP(&key.PublicKey, crypto.SHA256, []byte("seed"))
	require.NoError(t, err)
	ct[len(ct)-1] ^= 0xff

	_, err = dec.Decrypt(context.Background(), ct)
	assert.Error(t, err)

	_, err = dec.Decrypt(context.Background(), []byte("short"))
	assert.Error(t, err)
}

func TestFileKeyLoader_ReadsOnEveryCall(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "private.pem")
	loader := rsacrypt.NewFileKeyLoader(path)
	dec, err := rsacrypt.NewOAEP(loader, "sha256")
	require.NoError(t, err)

	_, err = dec.Decrypt(context.Background(), []byte("x"))
	require.ErrorIs(t, err, os.ErrNotExist)

	first := newKey(t)
	require.NoError(t, os.WriteFile(path, pkcs1PEM(first), 0o600))

	ct, err := rsacrypt.EncryptOAEP(&first.PublicKey, crypto.SHA256, []byte("abc"))
	require.NoError(t, err)
	got, err := dec.Decrypt(context.Background(), ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	second := newKey(t)
	require.NoError(t, os.WriteFile(path, pkcs1PEM(second), 0o600))

	_, err = dec.Decrypt(context.Background(), ct)
	assert.Error(t, err)
}

func TestNewOAEP_Errors(t *testing.T) {
	t.Parallel()

	_, err := rsacrypt.NewOAEP(rsacrypt.NewFileKeyLoader("x"), "md5")
	assert.ErrorIs(t, err, rsacrypt.ErrUnsupportedHash)

	_, err = rsacrypt.NewOAEP(nil, "sha256")
	assert.Error(t, err)

	_, err = rsacrypt.NewStaticKeyLoader([]byte("bad"))
	assert.ErrorIs(t, err, rsacrypt.ErrNoPEMBlock)
}
