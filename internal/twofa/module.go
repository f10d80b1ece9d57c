package twofa

import (
	"github.com/shandysiswandi/seedotp/internal/pkg/clock"
	"github.com/shandysiswandi/seedotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedotp/internal/pkg/hash"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/messaging"
	"github.com/shandysiswandi/seedotp/internal/pkg/otp"
	"github.com/shandysiswandi/seedotp/internal/pkg/rsacrypt"
	"github.com/shandysiswandi/seedotp/internal/pkg/router"
	"github.com/shandysiswandi/seedotp/internal/pkg/validator"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
	"github.com/shandysiswandi/seedotp/internal/twofa/inbound"
	"github.com/shandysiswandi/seedotp/internal/twofa/outbound/mq"
	"github.com/shandysiswandi/seedotp/internal/twofa/outbound/store"
	"github.com/shandysiswandi/seedotp/internal/twofa/usecase"
)

type Dependency struct {
	SeedStore  store.Store                `validate:"required"`
	Decrypter  *rsacrypt.OAEP             `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Totp       otp.OTP                    `validate:"required"`
	Validator  validator.Validator        `validate:"required"`

	// SeedPlaintext defaults to raw when empty.
	SeedPlaintext entity.PlaintextFormat `validate:"omitempty,oneof=raw hex"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoSeed:      dep.SeedStore,
		RepoMessaging: repoMsg,
		Decrypter:     dep.Decrypter,
		Validator:     dep.Validator,
		HMAC:          dep.HMAC,
		Totp:          dep.Totp,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
		Plaintext:     dep.SeedPlaintext,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
