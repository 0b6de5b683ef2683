package domain

import "errors"

var (
	// ErrNotFound is returned when no account matches the given email or ID.
	ErrNotFound = errors.New("account not found")
	// ErrEmailExists is returned when registering an email that is already taken.
	ErrEmailExists = errors.New("email already registered")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDisabled is reserved for account suspension; nothing produces it yet.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrOTPMissing is returned when no code is pending for the slot.
	ErrOTPMissing = errors.New("no pending otp")
	// ErrOTPMismatch is returned when the submitted code differs from the pending one.
	ErrOTPMismatch = errors.New("otp does not match")
	// ErrOTPExpired is returned when the submitted code matches but its expiry has passed.
	ErrOTPExpired = errors.New("otp expired")
	// ErrDeliveryFailed is returned when the notifier could not deliver a message.
	ErrDeliveryFailed = errors.New("notification delivery failed")
	// ErrInvalidInput is returned when a request fails validation.
	ErrInvalidInput = errors.New("invalid input")
)
