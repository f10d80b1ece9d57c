package router

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
)

// maxBodyBytes bounds request bodies; an RSA-4096 ciphertext in base64 is well below it.
const maxBodyBytes = 64 * 1024

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request
}

// GetParam reads a path parameter from the request context (as stored by httprouter).
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// GetQuery returns the trimmed query value for key.
func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// DecodeOption adjusts DecodeBody.
type DecodeOption func(*json.Decoder)

// StrictFields rejects JSON keys that dst does not declare.
func StrictFields() DecodeOption {
	return func(dec *json.Decoder) { dec.DisallowUnknownFields() }
}

// DecodeBody decodes the JSON body into dst. Unknown keys are ignored unless
// StrictFields is given. Trailing data and oversized bodies are rejected.
func (r *Request) DecodeBody(dst any, opts ...DecodeOption) error {
	if r == nil || r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	for _, opt := range opts {
		opt(dec)
	}

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return goerror.NewInvalidFormat()
	}

	return nil
}
