package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrSignature          = errors.New("callback signature mismatch")
	ErrBadPayload         = errors.New("malformed callback payload")
	ErrPaymentInit        = errors.New("payment initialization failed")
	ErrTokenExpired       = errors.New("confirmation token expired")
)
