package leads

import "errors"

var (
	// ErrMissingFields is returned when name, email or phone is absent from a submission.
	ErrMissingFields = errors.New("all fields are required")

	// ErrInvalidBody is returned when the request body cannot be decoded.
	ErrInvalidBody = errors.New("invalid request body")
)

// Generic messages for server-side failures; provider details stay in the logs.
const (
	msgProviderFailed = "failed to send email"
	msgInternal       = "failed to process request"
	msgSent           = "email sent"
)
