package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
	"github.com/samber/lo"
	"github.com/shandysiswandi/seedotp/internal/pkg/config"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

func matchedRoutePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

type httpMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newHTTPMetrics(meter metric.Meter) httpMetrics {
	var m httpMetrics
	var err error

	m.requests, err = meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP requests received"))
	if err != nil {
		slog.Error("failed to create http request counter", "error", err)
	}

	m.duration, err = meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration in milliseconds"), metric.WithUnit("ms"))
	if err != nil {
		slog.Error("failed to create http duration histogram", "error", err)
	}

	return m
}

func (m httpMetrics) record(r *http.Request, elapsed time.Duration, attrs []attribute.KeyValue) {
	opt := metric.WithAttributes(attrs...)
	if m.requests != nil {
		m.requests.Add(r.Context(), 1, opt)
	}
	if m.duration != nil {
		m.duration.Record(r.Context(), float64(elapsed.Microseconds())/1000, opt)
	}
}

func middlewareObservability(cfg config.Config, ins instrument.Instrumentation) Middleware {
	sensitive := map[string]struct{}{"authorization": {}}
	if cfg != nil {
		for _, field := range cfg.GetArray("instrument.log_mask_fields") {
			sensitive[strings.ToLower(field)] = struct{}{}
		}
	}

	tracer := ins.Tracer("http.server")
	metrics := newHTTPMetrics(ins.Meter("http.server"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := matchedRoutePath(r)
			base := []attribute.KeyValue{
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.HTTPRouteKey.String(route),
			}

			ctx, span := tracer.Start(r.Context(), r.Method+" "+route, trace.WithAttributes(base...))
			defer span.End()
			r = r.WithContext(ctx)

			reqBody, reqCapped := peekBody(r)
			slog.InfoContext(ctx, "request received",
				"method", r.Method,
				"path", route,
				"remote_addr", r.RemoteAddr,
				"headers", redactHeaders(r.Header, sensitive),
				"body", bodyForLog(reqBody, reqCapped),
			)

			rec := &responseRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.statusCode()
			attrs := append(base, semconv.HTTPResponseStatusCodeKey.Int(status))
			elapsed := time.Since(start)

			finishSpan(span, status, rec.err)
			span.SetAttributes(append(attrs,
				semconv.ServerAddressKey.String(r.Host),
				attribute.String("http.user_agent", r.UserAgent()),
				attribute.Int("http.response_content_length", rec.size),
			)...)
			metrics.record(r, elapsed, attrs)

			level := lo.Ternary(status >= http.StatusInternalServerError, slog.LevelError, slog.LevelInfo)
			logAttrs := []any{
				"method", r.Method,
				"path", route,
				"status", status,
				"bytes", rec.size,
				"latency_ms", elapsed.Milliseconds(),
				"body", bodyForLog(rec.body.Bytes(), rec.capped),
			}
			if rec.err != nil {
				logAttrs = append(logAttrs, "error", rec.err)
			}
			slog.Log(ctx, level, "response sent", logAttrs...)
		})
	}
}

func finishSpan(span trace.Span, status int, err error) {
	if err != nil {
		span.RecordError(err)
	}
	if status < http.StatusInternalServerError {
		span.SetStatus(codes.Ok, "")
		return
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Error, http.StatusText(status))
}

// peekBody reads up to maxLoggedBodyBytes of the request body and puts it
// back so the handler still sees the full stream.
func peekBody(r *http.Request) ([]byte, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false
	}

	//nolint:errcheck // best effort for logging only
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}

	if len(head) > maxLoggedBodyBytes {
		return head[:maxLoggedBodyBytes], true
	}
	return head, false
}

// bodyForLog decodes JSON so the log redaction handler can reach nested keys.
func bodyForLog(body []byte, capped bool) any {
	if len(body) == 0 {
		return nil
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err == nil {
		return doc
	}

	switch {
	case !utf8.Valid(body):
		return "<binary body omitted>"
	case capped:
		return string(body) + "...(truncated)"
	default:
		return string(body)
	}
}

func redactHeaders(h http.Header, sensitive map[string]struct{}) http.Header {
	out := h.Clone()
	for key := range out {
		if _, ok := sensitive[strings.ToLower(key)]; ok {
			out.Set(key, "***")
		}
	}
	return out
}
