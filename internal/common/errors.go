// Package common defines shared constants and sentinel errors used across
// the SignDesk server and client layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository/store-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Signing-flow errors. ErrValidationFailed is the only class surfaced to
	// end users as an actionable message.
	ErrValidationFailed      = errors.New("validation failed")
	ErrIdentityFormatInvalid = errors.New("invalid identity number format")

	// Persistence-boundary errors. Callers at the store boundary log these and
	// degrade rather than propagate.
	ErrCorruptAttachment = errors.New("corrupt attachment payload")

	// Auth errors.
	ErrorInvalidToken         = errors.New("invalid token")
	ErrorTokenRevoked         = errors.New("token revoked")
	ErrorInvalidLoginPassword = errors.New("invalid login/password")
	ErrorLoginAlreadyExists   = errors.New("login already exists")
	ErrorAdminAlreadyExists   = errors.New("admin account already exists")
)
