// Package otp generates and validates time-based one-time passwords (RFC 6238)
// from a raw shared seed.
//
// Seeds are handled as bytes; the base32 form the underlying library expects
// is derived internally and never leaves this package.
package otp
