// Package clock provides a tiny time abstraction.
//
// Code that derives anything from the current time (TOTP windows, the
// remaining validity of a code) should depend on the Clocker interface
// instead of calling time.Now() directly, so tests can pin the instant with
// Fixed.
package clock
