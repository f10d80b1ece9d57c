package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/seedotp/internal/twofa"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
)

func (a *App) initModules() {
	plaintext, err := entity.ParsePlaintextFormat(a.config.GetString("twofa.seed.plaintext"))
	if err != nil {
		slog.Error("failed to read twofa.seed.plaintext", "error", err)
		os.Exit(1)
	}

	if err := twofa.New(twofa.Dependency{
		SeedStore:  a.seedStore,
		Decrypter:  a.decrypter,
		Goroutine:  a.goroutine,
		Router:     a.router,
		Messaging:  a.messaging,
		Instrument: a.ins,
		HMAC:       a.hmac,
		Clock:      a.clock,
		Totp:       a.totp,
		Validator:  a.validator,

		SeedPlaintext: plaintext,
	}); err != nil {
		slog.Error("failed to init module twofa", "error", err)
		os.Exit(1)
	}
}
