package events

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-chain-vault/internal/apierrors"
	"github.com/MKhiriev/go-chain-vault/internal/utils"
	"github.com/MKhiriev/go-chain-vault/models"
)

// WebsocketDialer is the [Dialer] used outside tests.
type WebsocketDialer struct {
	dialer *websocket.Dialer
}

// NewWebsocketDialer returns a dialer whose handshake is bounded by
// handshakeTimeout.
func NewWebsocketDialer(handshakeTimeout time.Duration) *WebsocketDialer {
	return &WebsocketDialer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
	}
}

// Dial implements [Dialer]. A refused handshake is returned as a
// *apierrors.NetworkError carrying the HTTP status.
func (d *WebsocketDialer) Dial(ctx context.Context, rawURL string) (Conn, error) {
	header := http.Header{}
	header.Set(utils.RequestIDHeader, utils.NewRequestID())

	conn, resp, err := d.dialer.DialContext(ctx, rawURL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		netErr := &apierrors.NetworkError{Endpoint: models.EndpointEvents.String(), Err: err}
		if resp != nil {
			netErr.StatusCode = resp.StatusCode
			netErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, netErr
	}
	return conn, nil
}

// streamURL puts the handshake credential in the token query parameter.
func streamURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse event stream url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
