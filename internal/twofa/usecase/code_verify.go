package usecase

import (
	"context"
	"strings"

	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
)

type VerifyCodeInput struct {
	Code string
}

type VerifyCodeOutput struct {
	Valid bool
}

// VerifyCode checks a candidate code against the current window. A code of
// the wrong shape is simply not valid.
func (s *Usecase) VerifyCode(ctx context.Context, in VerifyCodeInput) (*VerifyCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, entity.ErrMissingCode
	}

	key, err := s.readSeedKey(ctx)
	if err != nil {
		return nil, err
	}

	return &VerifyCodeOutput{Valid: s.totp.Validate(code, key, s.clock.Now())}, nil
}
