package timelapse

import "fmt"

// State is where a run is in its fetch/display/wait cycle.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateScheduled
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateScheduled:
		return "scheduled"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText lets State render as its name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether a run in this state will never fetch again.
func (s State) Terminal() bool {
	return s == StateStopped || s == StateFailed
}

// Event drives a run from one State to the next.
type Event int

const (
	EventStart Event = iota
	// EventFetchSucceeded: overlay displayed and the run's token is still live.
	EventFetchSucceeded
	EventFetchFailed
	// EventTokenStale: a newer Start or a Stop advanced the token.
	EventTokenStale
	EventDelayElapsed
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventFetchSucceeded:
		return "fetch-succeeded"
	case EventFetchFailed:
		return "fetch-failed"
	case EventTokenStale:
		return "token-stale"
	case EventDelayElapsed:
		return "delay-elapsed"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Transition returns the state a run moves to when ev happens in from.
//
//	idle      --start-----------> fetching
//	fetching  --fetch-succeeded-> scheduled
//	fetching  --fetch-failed----> failed
//	fetching  --token-stale-----> stopped
//	scheduled --delay-elapsed---> fetching
//	scheduled --token-stale-----> stopped
func Transition(from State, ev Event) (State, error) {
	switch {
	case from == StateIdle && ev == EventStart:
		return StateFetching, nil
	case from == StateFetching && ev == EventFetchSucceeded:
		return StateScheduled, nil
	case from == StateFetching && ev == EventFetchFailed:
		return StateFailed, nil
	case from == StateFetching && ev == EventTokenStale:
		return StateStopped, nil
	case from == StateScheduled && ev == EventDelayElapsed:
		return StateFetching, nil
	case from == StateScheduled && ev == EventTokenStale:
		return StateStopped, nil
	}
	return from, fmt.Errorf("timelapse: no transition from %s on %s", from, ev)
}
