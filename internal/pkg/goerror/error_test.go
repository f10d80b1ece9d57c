package goerror_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_StatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: goerror.NewServer(errors.New("boom")), want: http.StatusInternalServerError},
		{name: "invalid format", err: goerror.NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "invalid input", err: goerror.NewInvalidInput(errors.New("bad")), want: http.StatusUnprocessableEntity},
		{name: "not found", err: goerror.NewBusiness("gone", goerror.CodeNotFound), want: http.StatusNotFound},
		{name: "unavailable", err: goerror.NewBusiness("later", goerror.CodeUnavailable), want: http.StatusServiceUnavailable},
		{name: "internal business", err: goerror.NewBusiness("Unexpected error", goerror.CodeInternal), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gerr *goerror.Error
			require.ErrorAs(t, tt.err, &gerr)
			assert.Equal(t, tt.want, gerr.StatusCode())
		})
	}
}

func TestNewBusinessWrap_KeepsCauseHidesItFromMsg(t *testing.T) {
	t.Parallel()

	cause := errors.New("crypto/rsa: decryption error")
	err := goerror.NewBusinessWrap(cause, "Decryption failed", goerror.CodeInternal)

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "Decryption failed", gerr.Msg())
	assert.ErrorIs(t, err, cause)
}

func TestNewInvalidInput_Fields(t *testing.T) {
	t.Parallel()

	err := goerror.NewInvalidInput(nil, "code", "is required")

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, map[string]string{"code": "is required"}, gerr.Fields())

	err = goerror.NewInvalidInput(nil, "dangling")
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeInvalidFormat, gerr.Code())
}

func TestCode_Unknown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusInternalServerError, goerror.Code(99).HTTPStatus())
	assert.Equal(t, "ERROR_CODE_INTERNAL", goerror.Code(99).String())
	assert.Equal(t, "ERROR_TYPE_UNKNOWN", goerror.Type(7).String())
}

func TestError_LogValue(t *testing.T) {
	t.Parallel()

	err := goerror.NewBusinessWrap(errors.New("disk full"), "Decryption failed", goerror.CodeInternal)

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)

	got := map[string]string{}
	for _, a := range gerr.LogValue().Group() {
		got[a.Key] = a.Value.String()
	}
	assert.Equal(t, map[string]string{
		"type":  "ERROR_TYPE_BUSINESS",
		"code":  "ERROR_CODE_INTERNAL",
		"msg":   "Decryption failed",
		"cause": "disk full",
	}, got)
}
