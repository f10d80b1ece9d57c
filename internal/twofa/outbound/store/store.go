// Package store persists the single live seed.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxSeedBytes bounds how much of a stored value is read back.
const maxSeedBytes = 4096

// Store is the seed persistence contract shared by every driver.
// Read returns goerror.ErrNotFound until the first Write.
type Store interface {
	Write(ctx context.Context, seed entity.HexSeed) error
	Read(ctx context.Context) (entity.HexSeed, error)
	Exists(ctx context.Context) (bool, error)
}

func startSpan(ctx context.Context, ins instrument.Instrumentation, name string) (context.Context, trace.Span) {
	return ins.Tracer("twofa.outbound.store").Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// parseStored turns a raw stored value into a seed. An empty value counts as
// never written.
func parseStored(raw string) (entity.HexSeed, error) {
	seed, err := entity.ParseHexSeed(raw)
	if err != nil {
		if strings.TrimSpace(raw) == "" {
			return "", goerror.ErrNotFound
		}
		return "", err
	}
	return seed, nil
}
