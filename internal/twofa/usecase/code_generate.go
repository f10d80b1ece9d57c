package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
)

type GenerateCodeOutput struct {
	Code     string
	ValidFor int
}

// GenerateCode returns the current code for the stored seed and the seconds
// left in its window.
func (s *Usecase) GenerateCode(ctx context.Context) (*GenerateCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "GenerateCode")
	defer span.End()

	key, err := s.readSeedKey(ctx)
	if err != nil {
		return nil, err
	}

	code, validFor, err := s.totp.GenerateCode(key, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp code", "error", err)
		return nil, fmt.Errorf("%w: %w", entity.ErrUnexpected, err)
	}

	return &GenerateCodeOutput{Code: code, ValidFor: validFor}, nil
}

// readSeedKey loads the stored seed and decodes it into the HMAC key.
// Only a seed that was never written is entity.ErrSeedUnavailable; a
// corrupted seed or a store failure is entity.ErrUnexpected.
func (s *Usecase) readSeedKey(ctx context.Context) ([]byte, error) {
	seed, err := s.repoSeed.Read(ctx)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "seed not decrypted yet")
		return nil, entity.ErrSeedUnavailable
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo read seed", "error", err)
		return nil, fmt.Errorf("%w: %w", entity.ErrUnexpected, err)
	}

	key, err := seed.Bytes()
	if err != nil {
		slog.ErrorContext(ctx, "stored seed is corrupted", "error", err)
		return nil, fmt.Errorf("%w: %w", entity.ErrUnexpected, err)
	}

	return key, nil
}
