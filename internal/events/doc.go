// Package events implements the client side of the event stream: one
// persistent WebSocket connection, a subscription registry that survives
// reconnects, exponential reconnect backoff and a keepalive heartbeat.
//
// The connection lifecycle is a small state machine
// (Disconnected, Connecting, Connected, Reconnecting) driven by a single
// transition function. All timers go through a [workers.Scheduler], so the
// whole lifecycle can be driven by a manual clock in tests.
package events
