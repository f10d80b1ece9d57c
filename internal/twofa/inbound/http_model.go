package inbound

import (
	"errors"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
)

const (
	msgDecryptionFailed = "Decryption failed"
	msgSeedUnavailable  = "Seed not decrypted yet"
	msgMissingCode      = "Missing code"
	msgUnexpected       = "Unexpected error"
)

type DecryptSeedRequest struct {
	Encrypted string `json:"encrypted"`
}

// DecryptSeedResponse carries either Status or Error; both are sent with 200.
type DecryptSeedResponse struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

type GenerateCodeResponse struct {
	Code     string `json:"code"`
	ValidFor int    `json:"valid_for"`
}

type VerifyCodeRequest struct {
	Code string `json:"code"`
}

type VerifyCodeResponse struct {
	Valid bool `json:"valid"`
}

type SeedStatusResponse struct {
	Decrypted   bool   `json:"decrypted"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// mapGenerateError reports every generate failure as a missing seed.
func mapGenerateError(err error) error {
	return goerror.NewBusinessWrap(err, msgSeedUnavailable, goerror.CodeInternal)
}

func mapVerifyError(err error) error {
	switch {
	case errors.Is(err, entity.ErrMissingCode):
		return goerror.NewBusinessWrap(err, msgMissingCode, goerror.CodeInvalidFormat)
	case errors.Is(err, entity.ErrSeedUnavailable):
		return goerror.NewBusinessWrap(err, msgSeedUnavailable, goerror.CodeInternal)
	default:
		return goerror.NewBusinessWrap(err, msgUnexpected, goerror.CodeInternal)
	}
}
