// Command generate-totp prints the current code for a hex seed, the same code
// GET /generate-2fa serves.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	libOTP "github.com/pquerna/otp"
	"github.com/shandysiswandi/seedotp/internal/pkg/otp"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
	"github.com/spf13/pflag"
)

func main() {
	seedHex := pflag.StringP("seed", "s", "", "seed as hex; overrides --seed-file")
	seedFile := pflag.StringP("seed-file", "f", "/data/seed.txt", "file holding the hex seed")
	period := pflag.Uint("period", 30, "time step in seconds")
	pflag.Parse()

	raw := *seedHex
	if strings.TrimSpace(raw) == "" {
		// #nosec G304 -- path is given by the operator.
		data, err := os.ReadFile(*seedFile)
		if err != nil {
			slog.Error("failed to read seed file", "path", *seedFile, "error", err)
			os.Exit(1)
		}
		raw = string(data)
	}

	seed, err := entity.ParseHexSeed(raw)
	if err != nil {
		slog.Error("invalid seed", "error", err)
		os.Exit(1)
	}

	key, err := seed.Bytes()
	if err != nil {
		slog.Error("invalid seed", "error", err)
		os.Exit(1)
	}

	if err := printCode(os.Stdout, otp.NewTOTP(*period, 0, libOTP.DigitsSix), key, time.Now()); err != nil {
		slog.Error("failed to generate totp code", "error", err)
		os.Exit(1)
	}
}

func printCode(w io.Writer, totp *otp.TOTP, key []byte, at time.Time) error {
	code, validFor, err := totp.GenerateCode(key, at)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "Current TOTP Code: %s\nValid for: %ds of %ds\n", code, validFor, totp.Period())
	return err
}
