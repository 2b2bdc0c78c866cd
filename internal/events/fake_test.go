package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-chain-vault/internal/config"
	"github.com/MKhiriev/go-chain-vault/internal/logger"
	"github.com/MKhiriev/go-chain-vault/internal/workers"
	"github.com/MKhiriev/go-chain-vault/models"
)

var (
	testStart = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	errDial   = errors.New("connection refused")
	errClosed = errors.New("use of closed connection")
)

// fakeConn is an in-memory Conn. The test plays the server through push
// and dropFromServer.
type fakeConn struct {
	incoming  chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	written []models.Frame
}

func newFakeConn() *fakeConn {
	return &fakeConn{incoming: make(chan []byte, 16), closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case msg, ok := <-f.incoming:
		if !ok {
			return 0, nil, &websocket.CloseError{Code: websocket.CloseAbnormalClosure}
		}
		return websocket.TextMessage, msg, nil
	case <-f.closed:
		return 0, nil, errClosed
	}
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	select {
	case <-f.closed:
		return errClosed
	default:
	}
	if messageType != websocket.TextMessage {
		return nil
	}

	var frame models.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return err
	}
	f.mu.Lock()
	f.written = append(f.written, frame)
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) isClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

func (f *fakeConn) frames() []models.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Frame(nil), f.written...)
}

func (f *fakeConn) framesOfType(t models.FrameType) []models.Frame {
	var out []models.Frame
	for _, frame := range f.frames() {
		if frame.Type == t {
			out = append(out, frame)
		}
	}
	return out
}

func (f *fakeConn) push(t *testing.T, frame models.Frame) {
	t.Helper()
	data, err := json.Marshal(frame)
	require.NoError(t, err)
	f.incoming <- data
}

func (f *fakeConn) pushRaw(data string) {
	f.incoming <- []byte(data)
}

// dropFromServer simulates the server going away.
func (f *fakeConn) dropFromServer() {
	close(f.incoming)
}

// fakeDialer answers dials from a script of errors; a nil entry, or an
// exhausted script, succeeds.
type fakeDialer struct {
	mu     sync.Mutex
	script []error
	always error
	urls   []string
	conns  []*fakeConn
}

func (d *fakeDialer) Dial(_ context.Context, rawURL string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.urls = append(d.urls, rawURL)
	if d.always != nil {
		return nil, d.always
	}
	if len(d.script) > 0 {
		err := d.script[0]
		d.script = d.script[1:]
		if err != nil {
			return nil, err
		}
	}
	conn := newFakeConn()
	d.conns = append(d.conns, conn)
	return conn, nil
}

func (d *fakeDialer) dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.urls)
}

func (d *fakeDialer) last() *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.conns) == 0 {
		return nil
	}
	return d.conns[len(d.conns)-1]
}

func staticToken(token string) TokenSource {
	return func() (string, bool) { return token, token != "" }
}

func testEventsConfig() config.Events {
	return config.Events{
		ReconnectBaseDelay:   time.Second,
		ReconnectMaxDelay:    30 * time.Second,
		MaxReconnectAttempts: 10,
		KeepaliveInterval:    30 * time.Second,
	}
}

func newTestClient(t *testing.T, dialer *fakeDialer, cfg config.Events) (*Client, *workers.ManualScheduler) {
	t.Helper()
	clock := workers.NewManualScheduler(testStart)
	c := NewClient("ws://vault.test/ws", cfg, dialer, staticToken("tok"), clock, logger.Nop())
	t.Cleanup(c.Disconnect)
	return c, clock
}

// receive waits for one value on ch.
func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for value")
		var zero T
		return zero
	}
}
