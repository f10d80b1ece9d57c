// Package uid generates identifiers used to correlate requests and events.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// Func adapts a plain function to StringID.
type Func func() string

// Generate calls f.
func (f Func) Generate() string { return f() }

// Static returns a StringID that always yields id.
func Static(id string) StringID {
	return Func(func() string { return id })
}
