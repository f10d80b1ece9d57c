package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pquerna/otp"
	"github.com/shandysiswandi/seedotp/internal/pkg/clock"
	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedotp/internal/pkg/hash"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	pkgotp "github.com/shandysiswandi/seedotp/internal/pkg/otp"
	"github.com/shandysiswandi/seedotp/internal/pkg/validator"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
	"github.com/shandysiswandi/seedotp/internal/twofa/usecase"
	"github.com/stretchr/testify/require"
)

// rfcSeed is the RFC 6238 SHA-1 test secret "12345678901234567890" in hex.
const rfcSeed entity.HexSeed = "3132333435363738393031323334353637383930"

type memSeed struct {
	mu        sync.Mutex
	seed      entity.HexSeed
	set       bool
	reads     int
	readErr   error
	writeErr  error
	existsErr error
}

func (m *memSeed) Write(_ context.Context, seed entity.HexSeed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.seed, m.set = seed, true
	return nil
}

func (m *memSeed) Read(context.Context) (entity.HexSeed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.readErr != nil {
		return "", m.readErr
	}
	if !m.set {
		return "", goerror.ErrNotFound
	}
	return m.seed, nil
}

func (m *memSeed) Exists(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set, m.existsErr
}

type fakeDecrypter struct {
	got []byte
	out []byte
	err error
}

func (f *fakeDecrypter) Decrypt(_ context.Context, ciphertext []byte) ([]byte, error) {
	f.got = ciphertext
	return f.out, f.err
}

type fakeMessaging struct {
	mu     sync.Mutex
	events []usecase.SeedRotatedEvent
	err    error
}

func (f *fakeMessaging) PublishSeedRotated(_ context.Context, msg usecase.SeedRotatedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, msg)
	return f.err
}

type fixture struct {
	uc        *usecase.Usecase
	seeds     *memSeed
	decrypter *fakeDecrypter
	msg       *fakeMessaging
	routine   *goroutine.Manager
}

func newFixture(t *testing.T, at int64, override usecase.Dependency) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	hmac, err := hash.NewHMACSHA256("test-secret")
	require.NoError(t, err)

	f := &fixture{
		seeds:     &memSeed{},
		decrypter: &fakeDecrypter{},
		msg:       &fakeMessaging{},
		routine:   goroutine.NewManager(4),
	}

	dep := usecase.Dependency{
		RepoSeed:      f.seeds,
		RepoMessaging: f.msg,
		Decrypter:     f.decrypter,
		Validator:     v,
		HMAC:          hmac,
		Totp:          pkgotp.NewTOTP(30, 0, otp.DigitsSix),
		Clock:         clock.Unix(at),
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.routine,
	}
	if override.Decrypter != nil {
		dep.Decrypter = override.Decrypter
	}
	if override.Plaintext != "" {
		dep.Plaintext = override.Plaintext
	}

	f.uc = usecase.New(dep)
	return f
}
