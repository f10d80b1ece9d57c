package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
)

// fingerprintLen is the number of hex characters of the seed HMAC exposed as
// a fingerprint.
const fingerprintLen = 16

var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

type DecryptSeedInput struct {
	Encrypted string `validate:"notblank"`
}

// DecryptSeed decrypts the base64 RSA-OAEP ciphertext and replaces the stored
// seed with the result. Every failure past input validation is reported as
// entity.ErrDecryptionFailed.
func (s *Usecase) DecryptSeed(ctx context.Context, in DecryptSeedInput) error {
	ctx, span := s.startSpan(ctx, "DecryptSeed")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return fmt.Errorf("%w: %w", entity.ErrInvalidInput, err)
	}

	ciphertext, err := decodeBase64(in.Encrypted)
	if err != nil {
		slog.WarnContext(ctx, "encrypted seed is not valid base64", "error", err)
		return fmt.Errorf("%w: %w", entity.ErrDecryptionFailed, err)
	}

	plaintext, err := s.decrypter.Decrypt(ctx, ciphertext)
	if err != nil {
		slog.WarnContext(ctx, "failed to decrypt seed", "ciphertext_len", len(ciphertext), "error", err)
		return fmt.Errorf("%w: %w", entity.ErrDecryptionFailed, err)
	}

	seed, err := entity.NewHexSeed(plaintext, s.plaintext)
	if err != nil {
		slog.WarnContext(ctx, "decrypted plaintext is not a seed", "format", s.plaintext, "error", err)
		return fmt.Errorf("%w: %w", entity.ErrDecryptionFailed, err)
	}

	if err := s.repoSeed.Write(ctx, seed); err != nil {
		slog.ErrorContext(ctx, "failed to repo write seed", "error", err)
		return fmt.Errorf("%w: %w", entity.ErrDecryptionFailed, err)
	}

	s.publishSeedRotated(ctx, seed)

	return nil
}

// fingerprint identifies a seed without revealing it.
func (s *Usecase) fingerprint(seed entity.HexSeed) string {
	sum := s.hmac.Sum([]byte(seed))
	return sum[:min(len(sum), fingerprintLen)]
}

func (s *Usecase) publishSeedRotated(ctx context.Context, seed entity.HexSeed) {
	ev := SeedRotatedEvent{
		Fingerprint: s.fingerprint(seed),
		RotatedAt:   s.clock.Now(),
	}

	scheduled := s.goroutine.Go(ctx, func(ctx context.Context) error {
		if err := s.repoMessaging.PublishSeedRotated(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "failed to publish seed rotated", "fingerprint", ev.Fingerprint, "error", err)
		}
		return nil
	})
	if !scheduled {
		slog.WarnContext(ctx, "seed rotated event dropped", "fingerprint", ev.Fingerprint)
	}
}

// decodeBase64 accepts padded and unpadded input in both the standard and the
// URL alphabet. Whitespace, such as line wrapping, is ignored.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	var lastErr error
	for _, enc := range base64Encodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}

	return nil, lastErr
}
