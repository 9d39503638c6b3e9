package services

import "errors"

// Sentinel errors shared by the service layer. Callers should use errors.Is
// to match these values; the HTTP layer maps them onto status codes.
var (
	// ErrNotFound is returned when a lookup resolves to no record.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write would violate a uniqueness rule
	// (duplicate recipe title/slug, duplicate username).
	ErrConflict = errors.New("already exists")

	// ErrValidation is returned for malformed or missing input.
	ErrValidation = errors.New("invalid input")

	// ErrInvalidCredentials is returned on a failed username/password check.
	// The message is deliberately the same for unknown users and wrong
	// passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a bearer token is missing, malformed,
	// or does not resolve to a user.
	ErrInvalidToken = errors.New("invalid token")
)
