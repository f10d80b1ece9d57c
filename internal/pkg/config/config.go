// Package config reads service settings from a YAML file with environment
// overrides.
package config

import (
	"io"
	"time"
)

// Config is the read-only view of service settings. Missing keys and values
// that do not convert yield the zero value.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetUint(key string) uint
	GetFloat64(key string) float64

	// GetSecond reads an integer number of seconds.
	GetSecond(key string) time.Duration

	// GetBinary decodes a base64 value, padded or not. Undecodable values yield nil.
	GetBinary(key string) []byte

	// GetArray splits a comma separated value. Elements are trimmed and empty
	// elements are dropped.
	GetArray(key string) []string
}
