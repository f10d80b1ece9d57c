package entity

import "errors"

// Error kinds returned by the twofa usecases. Callers match them with
// errors.Is; the inbound layer turns them into client-safe messages.
var (
	ErrInvalidInput     = errors.New("twofa: invalid input")
	ErrDecryptionFailed = errors.New("twofa: decryption failed")
	ErrSeedUnavailable  = errors.New("twofa: seed not available")
	ErrMissingCode      = errors.New("twofa: missing code")
	ErrUnexpected       = errors.New("twofa: unexpected error")

	ErrInvalidSeed            = errors.New("twofa: invalid seed")
	ErrUnknownPlaintextFormat = errors.New("twofa: unknown plaintext format")
)
