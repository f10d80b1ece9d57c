package event

import "time"

const SeedRotatedDestination string = "twofa.seed.rotated"

// SeedRotatedMessage announces that a new seed replaced the stored one.
// Fingerprint is a keyed digest prefix; the seed itself is never published.
type SeedRotatedMessage struct {
	Fingerprint string    `json:"fingerprint"`
	RotatedAt   time.Time `json:"rotated_at"`
}
