package vault

import (
	"context"
	"time"
)

// WSAPI is the WS namespace of a [Client].
type WSAPI struct {
	c *Client
}

// Connect opens the event stream with the current session token. Without a
// session it does nothing.
func (w *WSAPI) Connect(ctx context.Context) error {
	return w.c.stream.Connect(ctx)
}

// Disconnect closes the stream and cancels pending reconnects.
func (w *WSAPI) Disconnect() {
	w.c.stream.Disconnect()
}

// Subscribe registers handler for event. Subscriptions made while
// disconnected are sent once the stream opens.
func (w *WSAPI) Subscribe(event string, handler Handler) (Subscription, error) {
	return w.c.stream.Subscribe(event, handler)
}

// Unsubscribe removes a subscription.
func (w *WSAPI) Unsubscribe(sub Subscription) {
	w.c.stream.Unsubscribe(sub)
}

// State returns the stream state.
func (w *WSAPI) State() StreamState {
	return w.c.stream.State()
}

// OnError registers fn for stream errors: [ErrReconnectExhausted] once the
// stream gives up, and [*ServerError] for server error notices.
func (w *WSAPI) OnError(fn func(error)) {
	w.c.stream.OnError(fn)
}

// LastPong returns when the last heartbeat reply arrived.
func (w *WSAPI) LastPong() time.Time {
	return w.c.stream.LastPong()
}
