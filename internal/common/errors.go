// Package common defines shared sentinel errors used across the Scrawl
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors, mapped from platform responses.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateIdentity = errors.New("identity already exists")
	ErrValidation        = errors.New("validation failure")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// Transport-level errors (connectivity, timeouts, 5xx).
	ErrNetwork = errors.New("network failure")

	// Flow control: a state-changing operation is already in flight.
	ErrBusy = errors.New("operation already in flight")
)
