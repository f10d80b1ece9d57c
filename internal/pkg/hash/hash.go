package hash

// Hash produces keyed hex digests and compares them in constant time.
type Hash interface {
	Sum(data []byte) string
	Equal(digest string, data []byte) bool
}
