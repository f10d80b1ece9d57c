package router

import (
	"bytes"
	"net/http"
)

const maxLoggedBodyBytes = 32 * 1024

// responseRecorder tracks status, size and a capped copy of the body, plus
// the handler error so spans can record it.
type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
	body   bytes.Buffer
	capped bool
	err    error
}

func (w *responseRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if room := maxLoggedBodyBytes - w.body.Len(); room > 0 {
		w.body.Write(p[:min(len(p), room)])
		w.capped = w.capped || len(p) > room
	} else if len(p) > 0 {
		w.capped = true
	}

	n, err := w.ResponseWriter.Write(p)
	w.size += n
	return n, err
}

// SetError is called by endpoint when the handler fails.
func (w *responseRecorder) SetError(err error) { w.err = err }

func (w *responseRecorder) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *responseRecorder) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
