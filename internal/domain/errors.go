package domain

import "errors"

// Sentinel errors for the conditions the HTTP layer maps to status codes.
// Services wrap unexpected failures with fmt.Errorf and let them surface
// as 500s.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrForbidden          = errors.New("forbidden")
	ErrNotVerified        = errors.New("account not verified")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrMissingCode        = errors.New("otp is required")
	ErrInvalidCode        = errors.New("invalid otp")
	ErrAlreadyCompleted   = errors.New("profile already completed")
	ErrRollNumberTaken    = errors.New("roll number already registered by another student")
	ErrDeliveryFailed     = errors.New("failed to send otp email")
	ErrTooManyRequests    = errors.New("otp was sent recently, try again shortly")
)
