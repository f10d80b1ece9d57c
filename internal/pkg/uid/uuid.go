package uid

import "github.com/google/uuid"

// NewUUID returns a StringID producing time-ordered v7 UUIDs. A random v4 is
// returned when the v7 source fails.
func NewUUID() StringID {
	return Func(func() string {
		if id, err := uuid.NewV7(); err == nil {
			return id.String()
		}
		return uuid.NewString()
	})
}
