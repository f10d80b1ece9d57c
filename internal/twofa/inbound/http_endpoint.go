package inbound

import (
	"log/slog"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/router"
	"github.com/shandysiswandi/seedotp/internal/twofa/usecase"
)

// HTTPEndpoint exposes HTTP handlers for the seed and code workflows.
type HTTPEndpoint struct {
	uc uc
}

// DecryptSeed decrypts and stores a new seed.
// @Summary Decrypt seed
// @Description Decrypts a base64 RSA-OAEP ciphertext and stores the seed. Failures also answer 200 with an error body.
// @Tags TwoFA
// @Accept json
// @Produce json
// @Param request body DecryptSeedRequest true "Encrypted seed"
// @Success 200 {object} DecryptSeedResponse "Decrypt result"
// @Router /decrypt-seed [post]
func (h *HTTPEndpoint) DecryptSeed(r *router.Request) (any, error) {
	var req DecryptSeedRequest
	if err := r.DecodeBody(&req); err != nil {
		slog.WarnContext(r.Context(), "invalid decrypt seed body", "error", err)
		return DecryptSeedResponse{Error: msgDecryptionFailed}, nil
	}

	if err := h.uc.DecryptSeed(r.Context(), usecase.DecryptSeedInput{Encrypted: req.Encrypted}); err != nil {
		slog.WarnContext(r.Context(), "decrypt seed rejected", "error", err)
		return DecryptSeedResponse{Error: msgDecryptionFailed}, nil
	}

	return DecryptSeedResponse{Status: "ok"}, nil
}

// GenerateCode returns the current code.
// @Summary Generate 2FA code
// @Tags TwoFA
// @Produce json
// @Success 200 {object} GenerateCodeResponse "Current code"
// @Failure 500 {object} router.ErrorResponse "Seed not decrypted yet"
// @Router /generate-2fa [get]
func (h *HTTPEndpoint) GenerateCode(r *router.Request) (any, error) {
	resp, err := h.uc.GenerateCode(r.Context())
	if err != nil {
		return nil, mapGenerateError(err)
	}

	return GenerateCodeResponse{Code: resp.Code, ValidFor: resp.ValidFor}, nil
}

// VerifyCode checks a code against the current window.
// @Summary Verify 2FA code
// @Tags TwoFA
// @Accept json
// @Produce json
// @Param request body VerifyCodeRequest true "Code to verify"
// @Success 200 {object} VerifyCodeResponse "Verification result"
// @Failure 400 {object} router.ErrorResponse "Missing code"
// @Failure 500 {object} router.ErrorResponse "Seed not decrypted yet"
// @Router /verify-2fa [post]
func (h *HTTPEndpoint) VerifyCode(r *router.Request) (any, error) {
	var req VerifyCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyCode(r.Context(), usecase.VerifyCodeInput{Code: req.Code})
	if err != nil {
		return nil, mapVerifyError(err)
	}

	return VerifyCodeResponse{Valid: resp.Valid}, nil
}

// SeedStatus reports whether a seed is stored.
// @Summary Seed status
// @Tags TwoFA
// @Produce json
// @Success 200 {object} SeedStatusResponse "Seed presence"
// @Router /seed-status [get]
func (h *HTTPEndpoint) SeedStatus(r *router.Request) (any, error) {
	resp, err := h.uc.SeedStatus(r.Context())
	if err != nil {
		return nil, goerror.NewBusinessWrap(err, msgUnexpected, goerror.CodeInternal)
	}

	return SeedStatusResponse{Decrypted: resp.Decrypted, Fingerprint: resp.Fingerprint}, nil
}
