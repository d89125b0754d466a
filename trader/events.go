package trader

import "time"

// EventType identifies the source that woke the worker
type EventType int8

// the three event sources that feed a worker
const (
	EventTick EventType = iota
	EventMarketUpdate
	EventAccountUpdate
)

// String impl.
func (t EventType) String() string {
	switch t {
	case EventTick:
		return "tick"
	case EventMarketUpdate:
		return "market-update"
	case EventAccountUpdate:
		return "account-update"
	}
	return "unknown"
}

// Event wakes the worker's single consuming task. All event sources funnel into one
// channel so checking passes for a worker are serialized by construction.
type Event struct {
	Type EventType
	At   time.Time
}
