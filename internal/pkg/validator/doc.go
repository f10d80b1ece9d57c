// Package validator validates request and dependency structs through the
// Validator interface. The go-playground/validator v10 implementation
// translates failures to English, keyed by snake_case field name.
package validator
