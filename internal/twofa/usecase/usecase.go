package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/seedotp/internal/pkg/clock"
	"github.com/shandysiswandi/seedotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedotp/internal/pkg/hash"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/otp"
	"github.com/shandysiswandi/seedotp/internal/pkg/validator"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
	"go.opentelemetry.io/otel/trace"
)

type SeedRotatedEvent struct {
	Fingerprint string
	RotatedAt   time.Time
}

type repoMessaging interface {
	PublishSeedRotated(ctx context.Context, msg SeedRotatedEvent) error
}

type repoSeed interface {
	Write(ctx context.Context, seed entity.HexSeed) error
	Read(ctx context.Context) (entity.HexSeed, error)
	Exists(ctx context.Context) (bool, error)
}

type decrypter interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

type Usecase struct {
	repoSeed      repoSeed
	repoMessaging repoMessaging
	decrypter     decrypter
	validator     validator.Validator
	hmac          hash.Hash
	totp          otp.OTP
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
	plaintext     entity.PlaintextFormat
}

type Dependency struct {
	RepoSeed      repoSeed
	RepoMessaging repoMessaging
	Decrypter     decrypter
	Validator     validator.Validator
	HMAC          hash.Hash
	Totp          otp.OTP
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager

	// Plaintext selects how decrypted plaintext becomes a seed. Empty means raw.
	Plaintext entity.PlaintextFormat
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoSeed:      dep.RepoSeed,
		repoMessaging: dep.RepoMessaging,
		decrypter:     dep.Decrypter,
		validator:     dep.Validator,
		hmac:          dep.HMAC,
		totp:          dep.Totp,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
		plaintext:     dep.Plaintext,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("twofa.usecase").Start(ctx, name)
}
