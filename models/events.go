package models

import "encoding/json"

// FrameType is the discriminator of an event-stream frame.
type FrameType string

// Outbound frame types.
const (
	FrameSubscribe   FrameType = "subscribe"
	FrameUnsubscribe FrameType = "unsubscribe"
	FramePing        FrameType = "ping"
)

// Inbound frame types.
const (
	FrameEvent        FrameType = "event"
	FramePong         FrameType = "pong"
	FrameSubscribed   FrameType = "subscribed"
	FrameUnsubscribed FrameType = "unsubscribed"
	FrameError        FrameType = "error"
)

// Frame is a single JSON message exchanged over the event stream. Only the
// fields relevant to Type are populated.
type Frame struct {
	Type    FrameType       `json:"type"`
	Event   string          `json:"event,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}
