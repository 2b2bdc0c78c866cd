package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional SDK-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient("https://vault.example.com/api", 15*time.Second)
//	resp, err := client.R().Get("/data/list")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates and returns a new HTTPClient bound to baseURL.
//
// Every request carries Accept and Content-Type JSON headers and an
// X-Request-ID header taken from the request context (see [WithRequestID])
// or freshly generated. A non-positive timeout leaves the resty default.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if r.Header.Get(RequestIDHeader) != "" {
				return nil
			}
			id, ok := GetRequestIDFromContext(r.Context())
			if !ok {
				id = NewRequestID()
			}
			r.SetHeader(RequestIDHeader, id)
			return nil
		})

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client}
}
