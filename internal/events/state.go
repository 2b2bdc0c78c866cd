package events

// State is the connection lifecycle state.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Reconnecting
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	default:
		return "disconnected"
	}
}

type trigger int

const (
	// triggerDial starts a connection attempt.
	triggerDial trigger = iota
	// triggerOpen reports a successful handshake.
	triggerOpen
	// triggerFail reports a failed handshake or a lost connection.
	triggerFail
	// triggerGiveUp ends reconnecting once the retry budget is spent.
	triggerGiveUp
	// triggerDisconnect is an intentional shutdown.
	triggerDisconnect
)

func (t trigger) String() string {
	switch t {
	case triggerDial:
		return "dial"
	case triggerOpen:
		return "open"
	case triggerFail:
		return "fail"
	case triggerGiveUp:
		return "give_up"
	default:
		return "disconnect"
	}
}

// next is the only place the lifecycle moves. It reports false for a
// trigger that is not valid in state s.
func next(s State, t trigger) (State, bool) {
	if t == triggerDisconnect {
		return Disconnected, true
	}

	switch s {
	case Disconnected:
		if t == triggerDial {
			return Connecting, true
		}
	case Connecting:
		switch t {
		case triggerOpen:
			return Connected, true
		case triggerFail:
			return Reconnecting, true
		}
	case Connected:
		if t == triggerFail {
			return Reconnecting, true
		}
	case Reconnecting:
		switch t {
		case triggerDial:
			return Connecting, true
		case triggerGiveUp:
			return Disconnected, true
		}
	}
	return s, false
}
