package utils

import "github.com/google/uuid"

// RequestIDHeader is the header carrying the per-request identifier.
const RequestIDHeader = "X-Request-ID"

// NewRequestID returns a time-ordered UUIDv7 string, falling back to a
// random UUIDv4 when the v7 generator fails.
func NewRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
