package domain

import "errors"

var (
	// auth
	ErrAccessDenied    = errors.New("access denied")
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidPassword = errors.New("invalid password")

	// repository
	ErrNotFound = errors.New("user not found")
	ErrStorage  = errors.New("storage error")

	// uploads
	ErrMissingFile = errors.New("missing file")

	// presence checks
	ErrValidation = errors.New("validation error")
)
