package inbound_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/seedotp/internal/pkg/config"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/router"
	"github.com/shandysiswandi/seedotp/internal/pkg/uid"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
	"github.com/shandysiswandi/seedotp/internal/twofa/inbound"
	"github.com/shandysiswandi/seedotp/internal/twofa/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	decryptIn  usecase.DecryptSeedInput
	decryptErr error
	genOut     *usecase.GenerateCodeOutput
	genErr     error
	verifyIn   usecase.VerifyCodeInput
	verifyOut  *usecase.VerifyCodeOutput
	verifyErr  error
	statusOut  *usecase.SeedStatusOutput
	statusErr  error
}

func (f *fakeUsecase) DecryptSeed(_ context.Context, in usecase.DecryptSeedInput) error {
	f.decryptIn = in
	return f.decryptErr
}

func (f *fakeUsecase) GenerateCode(context.Context) (*usecase.GenerateCodeOutput, error) {
	return f.genOut, f.genErr
}

func (f *fakeUsecase) VerifyCode(_ context.Context, in usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error) {
	f.verifyIn = in
	return f.verifyOut, f.verifyErr
}

func (f *fakeUsecase) SeedStatus(context.Context) (*usecase.SeedStatusOutput, error) {
	return f.statusOut, f.statusErr
}

func serve(t *testing.T, uc *fakeUsecase, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  name: seedotp\n"))
	require.NoError(t, err)

	r := router.NewRouter(router.Config{Config: cfg, UUID: uid.Static("cid"), Instrument: instrument.NewNoop()})
	inbound.RegisterHTTPEndpoint(r, uc)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestDecryptSeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		err      error
		wantBody string
	}{
		{name: "ok", body: `{"encrypted":"QUJD"}`, wantBody: `{"status":"ok"}`},
		{
			name:     "decrypt failure",
			body:     `{"encrypted":"QUJD"}`,
			err:      fmt.Errorf("%w: %w", entity.ErrDecryptionFailed, errors.New("crypto/rsa: decryption error")),
			wantBody: `{"error":"Decryption failed"}`,
		},
		{
			name:     "invalid input",
			body:     `{"encrypted":""}`,
			err:      entity.ErrInvalidInput,
			wantBody: `{"error":"Decryption failed"}`,
		},
		{name: "malformed json", body: `{"encrypted":`, wantBody: `{"error":"Decryption failed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(t, &fakeUsecase{decryptErr: tt.err}, http.MethodPost, "/decrypt-seed", tt.body)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "crypto/rsa")
		})
	}
}

func TestDecryptSeed_PassesCiphertext(t *testing.T) {
	t.Parallel()

	uc := &fakeUsecase{}
	serve(t, uc, http.MethodPost, "/decrypt-seed", `{"encrypted":"QUJD"}`)
	assert.Equal(t, "QUJD", uc.decryptIn.Encrypted)
}

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		uc       *fakeUsecase
		wantCode int
		wantBody string
	}{
		{
			name:     "ok",
			uc:       &fakeUsecase{genOut: &usecase.GenerateCodeOutput{Code: "012345", ValidFor: 17}},
			wantCode: http.StatusOK,
			wantBody: `{"code":"012345","valid_for":17}`,
		},
		{
			name:     "no seed",
			uc:       &fakeUsecase{genErr: entity.ErrSeedUnavailable},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Seed not decrypted yet"}`,
		},
		{
			name:     "store failure collapses",
			uc:       &fakeUsecase{genErr: fmt.Errorf("%w: %w", entity.ErrUnexpected, errors.New("dial tcp 10.0.0.1:6379"))},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Seed not decrypted yet"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(t, tt.uc, http.MethodGet, "/generate-2fa", "")

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestVerifyCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		uc       *fakeUsecase
		wantCode int
		wantBody string
	}{
		{
			name:     "valid",
			body:     `{"code":"287082"}`,
			uc:       &fakeUsecase{verifyOut: &usecase.VerifyCodeOutput{Valid: true}},
			wantCode: http.StatusOK,
			wantBody: `{"valid":true}`,
		},
		{
			name:     "extra fields ignored",
			body:     `{"code":"287082","ts":1}`,
			uc:       &fakeUsecase{verifyOut: &usecase.VerifyCodeOutput{Valid: true}},
			wantCode: http.StatusOK,
			wantBody: `{"valid":true}`,
		},
		{
			name:     "corrupt seed",
			body:     `{"code":"287082"}`,
			uc:       &fakeUsecase{verifyErr: fmt.Errorf("%w: %w", entity.ErrUnexpected, entity.ErrInvalidSeed)},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Unexpected error"}`,
		},
		{
			name:     "invalid",
			body:     `{"code":"000000"}`,
			uc:       &fakeUsecase{verifyOut: &usecase.VerifyCodeOutput{Valid: false}},
			wantCode: http.StatusOK,
			wantBody: `{"valid":false}`,
		},
		{
			name:     "missing code",
			body:     `{}`,
			uc:       &fakeUsecase{verifyErr: entity.ErrMissingCode},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Missing code"}`,
		},
		{
			name:     "no seed",
			body:     `{"code":"287082"}`,
			uc:       &fakeUsecase{verifyErr: entity.ErrSeedUnavailable},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Seed not decrypted yet"}`,
		},
		{
			name:     "unexpected",
			body:     `{"code":"287082"}`,
			uc:       &fakeUsecase{verifyErr: fmt.Errorf("%w: %w", entity.ErrUnexpected, errors.New("pq: connection reset"))},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Unexpected error"}`,
		},
		{
			name:     "malformed body",
			body:     `not json`,
			uc:       &fakeUsecase{},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Invalid request body"}`,
		},
		{
			name:     "numeric code",
			body:     `{"code":287082}`,
			uc:       &fakeUsecase{},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Invalid request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(t, tt.uc, http.MethodPost, "/verify-2fa", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestSeedStatus(t *testing.T) {
	t.Parallel()

	rec := serve(t, &fakeUsecase{statusOut: &usecase.SeedStatusOutput{Decrypted: true, Fingerprint: "0123456789abcdef"}}, http.MethodGet, "/seed-status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"decrypted":true,"fingerprint":"0123456789abcdef"}`, rec.Body.String())

	rec = serve(t, &fakeUsecase{statusOut: &usecase.SeedStatusOutput{}}, http.MethodGet, "/seed-status", "")
	assert.JSONEq(t, `{"decrypted":false}`, rec.Body.String())

	rec = serve(t, &fakeUsecase{statusErr: entity.ErrUnexpected}, http.MethodGet, "/seed-status", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Unexpected error"}`, rec.Body.String())
}

func TestWrongMethod(t *testing.T) {
	t.Parallel()

	rec := serve(t, &fakeUsecase{}, http.MethodGet, "/verify-2fa", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
