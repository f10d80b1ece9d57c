package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
)

type SeedStatusOutput struct {
	Decrypted   bool
	Fingerprint string
}

// SeedStatus reports whether a seed has been stored and, if so, its
// fingerprint.
func (s *Usecase) SeedStatus(ctx context.Context) (*SeedStatusOutput, error) {
	ctx, span := s.startSpan(ctx, "SeedStatus")
	defer span.End()

	ok, err := s.repoSeed.Exists(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check seed", "error", err)
		return nil, fmt.Errorf("%w: %w", entity.ErrUnexpected, err)
	}
	if !ok {
		return &SeedStatusOutput{}, nil
	}

	seed, err := s.repoSeed.Read(ctx)
	if errors.Is(err, goerror.ErrNotFound) {
		return &SeedStatusOutput{}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo read seed", "error", err)
		return nil, fmt.Errorf("%w: %w", entity.ErrUnexpected, err)
	}

	return &SeedStatusOutput{Decrypted: true, Fingerprint: s.fingerprint(seed)}, nil
}
