package events

import (
	"encoding/json"
	"sort"
)

// Event is one delivered event.
type Event struct {
	Name string
	Data json.RawMessage
}

// Subscription identifies one registered handler. It is returned by
// Subscribe and passed back to Unsubscribe.
type Subscription struct {
	event string
	id    string
}

// Event returns the subscribed event type.
func (s Subscription) Event() string { return s.event }

// ID returns the unique id of the registration.
func (s Subscription) ID() string { return s.id }

// registry maps event types to handlers and tracks which event types the
// current connection still has to subscribe to.
type registry struct {
	handlers map[string]map[string]Handler
	pending  map[string]struct{}
}

func newRegistry() *registry {
	return &registry{
		handlers: make(map[string]map[string]Handler),
		pending:  make(map[string]struct{}),
	}
}

// add registers h and reports whether it is the first handler for event.
func (r *registry) add(event, id string, h Handler) bool {
	set, ok := r.handlers[event]
	if !ok {
		set = make(map[string]Handler)
		r.handlers[event] = set
	}
	set[id] = h
	return len(set) == 1
}

// remove drops a handler and reports whether that emptied the event's set.
// Removing an unknown handler reports false.
func (r *registry) remove(event, id string) bool {
	set, ok := r.handlers[event]
	if !ok {
		return false
	}
	if _, ok := set[id]; !ok {
		return false
	}
	delete(set, id)
	if len(set) > 0 {
		return false
	}
	delete(r.handlers, event)
	return true
}

func (r *registry) handlersFor(event string) []Handler {
	set := r.handlers[event]
	out := make([]Handler, 0, len(set))
	for _, h := range set {
		out = append(out, h)
	}
	return out
}

func (r *registry) has(event string) bool {
	_, ok := r.handlers[event]
	return ok
}

func (r *registry) markPending(event string) {
	r.pending[event] = struct{}{}
}

func (r *registry) unmarkPending(event string) {
	delete(r.pending, event)
}

// drainPending returns the pending event types in name order and clears the
// set.
func (r *registry) drainPending() []string {
	out := make([]string, 0, len(r.pending))
	for event := range r.pending {
		out = append(out, event)
	}
	sort.Strings(out)
	clear(r.pending)
	return out
}

// resetPending marks every registered event type pending. A new connection
// starts with no server-side subscriptions.
func (r *registry) resetPending() {
	for event := range r.handlers {
		r.pending[event] = struct{}{}
	}
}
