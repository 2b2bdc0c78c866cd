package events

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyEvent = errors.New("event type is empty")
	ErrNilHandler = errors.New("handler is nil")
)

// ServerError is an error notice sent by the server over the stream.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("event stream server error: %s", e.Message)
}
