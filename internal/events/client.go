// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-chain-vault/internal/apierrors"
	"github.com/MKhiriev/go-chain-vault/internal/config"
	"github.com/MKhiriev/go-chain-vault/internal/logger"
	"github.com/MKhiriev/go-chain-vault/internal/workers"
	"github.com/MKhiriev/go-chain-vault/models"
)

// Client is the event stream client. It is safe for concurrent use.
type Client struct {
	url       string
	cfg       config.Events
	dialer    Dialer
	tokens    TokenSource
	scheduler workers.Scheduler
	logger    *logger.Logger

	mu    sync.Mutex
	state State
	conn  Conn
	// epoch changes on every connection attempt and on Disconnect; results
	// of an attempt from another epoch are discarded.
	epoch     uint64
	attempts  int
	reconnect workers.Timer
	keepalive workers.Timer
	registry  *registry
	lastPong  time.Time
	onError   []func(error)
}

// NewClient constructs a disconnected [Client] for the stream at wsURL.
// Zero values in cfg fall back to the package defaults of [config].
func NewClient(
	wsURL string,
	cfg config.Events,
	dialer Dialer,
	tokens TokenSource,
	scheduler workers.Scheduler,
	log *logger.Logger,
) *Client {
	if cfg.ReconnectBaseDelay <= 0 {
		cfg.ReconnectBaseDelay = config.DefaultReconnectBaseDelay
	}
	if cfg.ReconnectMaxDelay <= 0 {
		cfg.ReconnectMaxDelay = config.DefaultReconnectMaxDelay
	}
	if cfg.MaxReconnectAttempts <= 0 {
		cfg.MaxReconnectAttempts = config.DefaultMaxReconnectAttempts
	}
	if cfg.KeepaliveInterval <= 0 {
		cfg.KeepaliveInterval = config.DefaultKeepaliveInterval
	}

	return &Client{
		url:       wsURL,
		cfg:       cfg,
		dialer:    dialer,
		tokens:    tokens,
		scheduler: scheduler,
		logger:    log.Component("events"),
		registry:  newRegistry(),
	}
}

// Connect opens the stream. It is a no-op while connected or connecting,
// and logs and returns nil when no credential is available yet.
//
// A failed dial is returned, and is also retried in the background under
// the reconnect policy until Disconnect is called or the retry budget runs
// out.
func (c *Client) Connect(ctx context.Context) error {
	token, ok := c.tokens()

	c.mu.Lock()
	if c.state == Connected || c.state == Connecting {
		c.mu.Unlock()
		return nil
	}
	if !ok || token == "" {
		c.mu.Unlock()
		c.logger.Warn().Str("func", "*Client.Connect").Msg("no credential available, event stream not opened")
		return nil
	}

	stopTimer(&c.reconnect)
	if c.state == Disconnected {
		c.attempts = 0
	}
	epoch := c.beginAttemptLocked()
	c.mu.Unlock()

	if err := c.dial(ctx, epoch, token); err != nil {
		return fmt.Errorf("connect event stream: %w", err)
	}
	return nil
}

// Disconnect closes the stream and cancels the reconnect and keepalive
// timers before returning. Subscriptions are kept and replayed by the next
// Connect.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	stopTimer(&c.reconnect)
	stopTimer(&c.keepalive)
	if c.conn != nil {
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = c.conn.Close()
		c.conn = nil
	}
	c.registry.resetPending()
	c.attempts = 0
	c.transitionLocked(triggerDisconnect)
}

// Subscribe registers handler for event. The subscribe frame is sent right
// away when connected, otherwise on the next successful open.
func (c *Client) Subscribe(event string, handler Handler) (Subscription, error) {
	if event == "" {
		return Subscription{}, apierrors.NewValidationError("event", ErrEmptyEvent)
	}
	if handler == nil {
		return Subscription{}, apierrors.NewValidationError("handler", ErrNilHandler)
	}

	sub := Subscription{event: event, id: uuid.NewString()}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.registry.add(event, sub.id, handler) {
		return sub, nil
	}
	if c.state != Connected {
		c.registry.markPending(event)
		return sub, nil
	}
	if err := c.sendLocked(models.Frame{Type: models.FrameSubscribe, Event: event}); err != nil {
		c.logger.Err(err).Str("func", "*Client.Subscribe").Str("event", event).Msg("subscribe frame not sent, queued")
		c.registry.markPending(event)
	}
	return sub, nil
}

// Unsubscribe removes the handler of sub. Removing the last handler of an
// event type tells the server to stop sending it. Unknown subscriptions are
// ignored.
func (c *Client) Unsubscribe(sub Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.registry.remove(sub.event, sub.id) {
		return
	}
	c.registry.unmarkPending(sub.event)
	if c.state != Connected {
		return
	}
	if err := c.sendLocked(models.Frame{Type: models.FrameUnsubscribe, Event: sub.event}); err != nil {
		c.logger.Err(err).Str("func", "*Client.Unsubscribe").Str("event", sub.event).Msg("unsubscribe frame not sent")
	}
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastPong returns when the last heartbeat reply arrived. It is informative
// only; a missing pong never closes the connection.
func (c *Client) LastPong() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPong
}

// OnError registers fn for terminal reconnect failures and server error
// frames.
func (c *Client) OnError(fn func(error)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = append(c.onError, fn)
}

func (c *Client) beginAttemptLocked() uint64 {
	c.transitionLocked(triggerDial)
	c.epoch++
	return c.epoch
}

func (c *Client) dial(ctx context.Context, epoch uint64, token string) error {
	rawURL, err := streamURL(c.url, token)
	if err != nil {
		c.fail(epoch, err)
		return err
	}

	conn, err := c.dialer.Dial(ctx, rawURL)
	if err != nil {
		c.fail(epoch, err)
		return err
	}

	c.open(epoch, conn)
	return nil
}

func (c *Client) open(epoch uint64, conn Conn) {
	c.mu.Lock()
	if epoch != c.epoch || c.state != Connecting {
		c.mu.Unlock()
		_ = conn.Close()
		return
	}

	c.transitionLocked(triggerOpen)
	c.conn = conn
	c.attempts = 0

	for _, event := range c.registry.drainPending() {
		if err := c.sendLocked(models.Frame{Type: models.FrameSubscribe, Event: event}); err != nil {
			c.logger.Err(err).Str("func", "*Client.open").Str("event", event).Msg("subscription replay failed")
			c.registry.markPending(event)
		}
	}
	c.keepalive = workers.Repeat(c.scheduler, c.cfg.KeepaliveInterval, c.ping)
	c.mu.Unlock()

	go c.readLoop(conn)
}

// fail handles a failed connection attempt.
func (c *Client) fail(epoch uint64, cause error) {
	c.mu.Lock()
	if epoch != c.epoch || c.state != Connecting {
		c.mu.Unlock()
		return
	}
	terminal := c.failLocked(cause)
	observers := c.onError
	c.mu.Unlock()

	if terminal != nil {
		notify(observers, terminal)
	}
}

// lost handles the end of an established connection.
func (c *Client) lost(conn Conn, cause error) {
	c.mu.Lock()
	if c.conn != conn {
		// closed by Disconnect
		c.mu.Unlock()
		return
	}
	c.conn = nil
	_ = conn.Close()
	stopTimer(&c.keepalive)
	c.registry.resetPending()
	terminal := c.failLocked(cause)
	observers := c.onError
	c.mu.Unlock()

	if terminal != nil {
		notify(observers, terminal)
	}
}

// failLocked moves to Reconnecting and schedules the next attempt, or gives
// up and returns the terminal error once the retry budget is spent.
func (c *Client) failLocked(cause error) error {
	c.transitionLocked(triggerFail)

	if c.attempts >= c.cfg.MaxReconnectAttempts {
		c.transitionLocked(triggerGiveUp)
		c.epoch++
		c.logger.Error().Err(cause).
			Str("func", "*Client.failLocked").
			Int("attempts", c.attempts).
			Msg("event stream reconnect attempts exhausted")
		return fmt.Errorf("%w: %w", apierrors.ErrReconnectExhausted, cause)
	}

	delay := backoffDelay(c.cfg.ReconnectBaseDelay, c.cfg.ReconnectMaxDelay, c.attempts)
	c.attempts++
	epoch := c.epoch
	c.reconnect = c.scheduler.AfterFunc(delay, func() {
		c.retry(epoch)
	})

	c.logger.Warn().Err(cause).
		Str("func", "*Client.failLocked").
		Int("attempt", c.attempts).
		Dur("delay", delay).
		Msg("event stream down, reconnect scheduled")
	return nil
}

// retry runs on the reconnect timer.
func (c *Client) retry(epoch uint64) {
	token, ok := c.tokens()

	c.mu.Lock()
	if epoch != c.epoch || c.state != Reconnecting {
		c.mu.Unlock()
		return
	}
	c.reconnect = nil
	epoch = c.beginAttemptLocked()
	c.mu.Unlock()

	if !ok || token == "" {
		c.fail(epoch, apierrors.ErrNotAuthenticated)
		return
	}

	ctx := c.logger.WithContext(context.Background())
	_ = c.dial(ctx, epoch, token)
}

func (c *Client) ping() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Connected {
		return
	}
	if err := c.sendLocked(models.Frame{Type: models.FramePing}); err != nil {
		c.logger.Warn().Err(err).Str("func", "*Client.ping").Msg("heartbeat not sent")
	}
}

func (c *Client) readLoop(conn Conn) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			c.lost(conn, err)
			return
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		var frame models.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.logger.Warn().Err(err).Str("func", "*Client.readLoop").Msg("malformed frame skipped")
			continue
		}
		c.handleFrame(frame)
	}
}

func (c *Client) handleFrame(frame models.Frame) {
	switch frame.Type {
	case models.FrameEvent:
		c.dispatch(Event{Name: frame.Event, Data: frame.Data})
	case models.FramePong:
		c.mu.Lock()
		c.lastPong = c.scheduler.Now()
		c.mu.Unlock()
	case models.FrameSubscribed, models.FrameUnsubscribed:
		c.logger.Debug().Str("func", "*Client.handleFrame").
			Str("type", string(frame.Type)).
			Str("event", frame.Event).
			Msg("subscription acknowledged")
	case models.FrameError:
		c.mu.Lock()
		observers := c.onError
		c.mu.Unlock()
		notify(observers, &ServerError{Message: frame.Message})
	default:
		c.logger.Debug().Str("func", "*Client.handleFrame").Str("type", string(frame.Type)).Msg("unknown frame type")
	}
}

func (c *Client) dispatch(event Event) {
	c.mu.Lock()
	handlers := c.registry.handlersFor(event.Name)
	c.mu.Unlock()

	for _, h := range handlers {
		c.invoke(h, event)
	}
}

// invoke runs one handler, containing its panic.
func (c *Client) invoke(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn().
				Str("func", "*Client.invoke").
				Str("event", event.Name).
				Interface("panic", r).
				Msg("event handler panicked")
		}
	}()
	h(event)
}

func (c *Client) sendLocked(frame models.Frame) error {
	if c.conn == nil {
		return fmt.Errorf("send %s frame: not connected", frame.Type)
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", frame.Type, err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write %s frame: %w", frame.Type, err)
	}
	c.logger.Debug().Str("func", "*Client.sendLocked").Str("type", string(frame.Type)).Str("event", frame.Event).Msg("frame sent")
	return nil
}

func (c *Client) transitionLocked(t trigger) bool {
	to, ok := next(c.state, t)
	if !ok {
		c.logger.Debug().Str("func", "*Client.transitionLocked").
			Stringer("state", c.state).
			Stringer("trigger", t).
			Msg("transition ignored")
		return false
	}
	if to != c.state {
		c.logger.Info().Str("func", "*Client.transitionLocked").
			Stringer("from", c.state).
			Stringer("to", to).
			Msg("event stream state changed")
	}
	c.state = to
	return true
}

func stopTimer(t *workers.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

func notify(observers []func(error), err error) {
	for _, fn := range observers {
		fn(err)
	}
}
