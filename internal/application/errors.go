package application

import "errors"

// Expected outcomes, mapped to HTTP statuses at the handler boundary.
// Anything else is treated as an internal error: logged, never leaked.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrModelNotFound      = errors.New("model not found")
	ErrInvalidModelID     = errors.New("invalid model id")
	// ErrStorage marks an asset store failure. The enclosing upload aborts
	// before any metadata is written; the caller may retry.
	ErrStorage = errors.New("asset storage unavailable")
)
