package leads

import "errors"

var (
	// ErrInvalidName is returned when the name is missing or too short.
	ErrInvalidName = errors.New("a valid name is required")

	// ErrInvalidEmail is returned when the provided email does not parse.
	ErrInvalidEmail = errors.New("a valid email address is required")

	// ErrInvalidPhone is returned when the provided phone has too few digits.
	ErrInvalidPhone = errors.New("a valid phone number is required")

	// ErrMissingContact is returned when both email and phone are missing.
	ErrMissingContact = errors.New("either email or phone is required")

	// ErrLeadNotFound is returned when a lead is not found.
	ErrLeadNotFound = errors.New("lead not found")
)
