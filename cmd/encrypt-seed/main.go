// Command encrypt-seed produces the ciphertext accepted by POST /decrypt-seed.
//
//	encrypt-seed --public-key student_public.pem --seed 3132333435363738393031323334353637383930
//	encrypt-seed --public-key student_public.pem --seed 3132... --plaintext hex
//	encrypt-seed --gen-key ./keys
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shandysiswandi/seedotp/internal/pkg/rsacrypt"
	"github.com/shandysiswandi/seedotp/internal/pkg/validator"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
	"github.com/spf13/pflag"
)

type input struct {
	PublicKey string `validate:"required"`
	Seed      string `validate:"required,hexbytes"`
	Plaintext string `validate:"oneof=raw hex"`
}

func main() {
	publicKey := pflag.StringP("public-key", "k", "", "path to the RSA public key PEM")
	seed := pflag.StringP("seed", "s", "", "seed as an even-length hex string")
	hashName := pflag.String("hash", "sha256", "OAEP hash: sha256, sha1 or sha512")
	genKey := pflag.String("gen-key", "", "write a new RSA key pair into this directory and exit")
	bits := pflag.Int("bits", 4096, "key size used with --gen-key")
	plaintext := pflag.String("plaintext", "raw", "what gets encrypted: raw seed bytes or their hex text; match twofa.seed.plaintext")
	pflag.Parse()

	if *genKey != "" {
		if err := generateKeyPair(*genKey, *bits); err != nil {
			slog.Error("failed to generate key pair", "error", err)
			os.Exit(1)
		}
		return
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validator", "error", err)
		os.Exit(1)
	}

	in := input{
		PublicKey: strings.TrimSpace(*publicKey),
		Seed:      strings.ToLower(strings.TrimSpace(*seed)),
		Plaintext: strings.ToLower(strings.TrimSpace(*plaintext)),
	}
	if err := v.Validate(in); err != nil {
		slog.Error("invalid arguments", "error", err)
		pflag.Usage()
		os.Exit(2)
	}

	h, err := rsacrypt.HashFromName(*hashName)
	if err != nil {
		slog.Error("invalid hash", "hash", *hashName, "error", err)
		os.Exit(2)
	}

	// #nosec G304 -- path is given by the operator.
	pemData, err := os.ReadFile(in.PublicKey)
	if err != nil {
		slog.Error("failed to read public key", "error", err)
		os.Exit(1)
	}

	pub, err := rsacrypt.ParsePublicKeyPEM(pemData)
	if err != nil {
		slog.Error("failed to parse public key", "error", err)
		os.Exit(1)
	}

	msg, err := seedPlaintext(in.Seed, entity.PlaintextFormat(in.Plaintext))
	if err != nil {
		slog.Error("invalid seed", "error", err)
		os.Exit(2)
	}

	ct, err := rsacrypt.EncryptOAEP(pub, h, msg)
	if err != nil {
		slog.Error("failed to encrypt seed", "error", err)
		os.Exit(1)
	}

	fmt.Println(base64.StdEncoding.EncodeToString(ct))
}

// seedPlaintext is the inverse of entity.NewHexSeed for the given format.
func seedPlaintext(seedHex string, format entity.PlaintextFormat) ([]byte, error) {
	if format == entity.PlaintextHex {
		return []byte(seedHex), nil
	}
	return hex.DecodeString(seedHex)
}

func generateKeyPair(dir string, bits int) error {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return err
	}

	privPEM, err := rsacrypt.EncodePrivateKeyPEM(key)
	if err != nil {
		return err
	}

	pubPEM, err := rsacrypt.EncodePublicKeyPEM(&key.PublicKey)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	privPath := filepath.Join(dir, "student_private.pem")
	if err := os.WriteFile(privPath, privPEM, 0o600); err != nil {
		return err
	}

	pubPath := filepath.Join(dir, "student_public.pem")
	if err := os.WriteFile(pubPath, pubPEM, 0o644); err != nil { //nolint:gosec // public key
		return err
	}

	fmt.Println(privPath)
	fmt.Println(pubPath)

	return nil
}
