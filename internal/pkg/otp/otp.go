package otp

import (
	"encoding/base32"
	"errors"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// ErrEmptySeed is returned when a code is requested for an empty seed.
var ErrEmptySeed = errors.New("otp: empty seed")

var secretEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// OTP defines the contract for TOTP operations over raw seed bytes.
type OTP interface {
	// GenerateCode creates a TOTP code for the seed at the given time and
	// reports how many seconds the code stays valid.
	GenerateCode(seed []byte, at time.Time) (code string, validFor int, err error)
	// Validate checks whether a code is valid for the seed at the given time.
	Validate(code string, seed []byte, at time.Time) bool
}

// TOTP implements OTP using the Time-based One-Time Password algorithm (RFC 6238)
// with HMAC-SHA1.
type TOTP struct {
	period uint
	skew   uint
	digits otp.Digits
}

// NewTOTP constructs a TOTP instance.
//
// If digits is not 6 or 8, it falls back to 6 digits. If period is 0, it uses
// the common 30-second period. A skew of 0 accepts only the current window.
func NewTOTP(period, skew uint, digits otp.Digits) *TOTP {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	if period == 0 {
		period = 30
	}

	return &TOTP{
		period: period,
		skew:   skew,
		digits: digits,
	}
}

// Period returns the time step in seconds.
func (o *TOTP) Period() uint {
	return o.period
}

// GenerateCode creates a TOTP code for the given seed and time.
func (o *TOTP) GenerateCode(seed []byte, at time.Time) (string, int, error) {
	if len(seed) == 0 {
		return "", 0, ErrEmptySeed
	}

	code, err := totp.GenerateCodeCustom(secretEncoding.EncodeToString(seed), at, o.opts())
	if err != nil {
		return "", 0, err
	}

	return code, o.validFor(at), nil
}

// Validate checks whether a code is valid at the given time.
func (o *TOTP) Validate(code string, seed []byte, at time.Time) bool {
	if len(seed) == 0 || code == "" {
		return false
	}

	rv, err := totp.ValidateCustom(code, secretEncoding.EncodeToString(seed), at, o.opts())

	return rv && err == nil
}

func (o *TOTP) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// validFor is in [1, period].
func (o *TOTP) validFor(at time.Time) int {
	sec := at.Unix()
	p := int64(o.period)
	rem := sec % p
	if rem < 0 {
		rem += p
	}
	return int(p - rem)
}
