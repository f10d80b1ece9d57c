// Package hash provides keyed hashing for values that must be compared or
// referenced without being revealed.
package hash
