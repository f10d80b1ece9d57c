package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/uid"
)

const (
	// HeaderCorrelationID is echoed on every response.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is accepted as an inbound alias.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// inboundCID returns the first usable correlation ID sent by the caller.
// Values carrying line breaks are ignored to keep them out of log lines.
func inboundCID(h http.Header) string {
	for _, name := range []string{HeaderCorrelationID, HeaderRequestID} {
		v := h.Get(name)
		if strings.ContainsAny(v, "\r\n") {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			return v[:min(len(v), maxCorrelationIDLen)]
		}
	}
	return ""
}

func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := inboundCID(r.Header)
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
