package kanadrop

// EventKind identifies a session notification.
type EventKind int

const (
	EventSessionBegin EventKind = iota
	EventKeystroke
	EventCorrect
	EventMiss
	EventStageClear
	EventSessionClear
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventSessionBegin:
		return "SessionBegin"
	case EventKeystroke:
		return "Keystroke"
	case EventCorrect:
		return "Correct"
	case EventMiss:
		return "Miss"
	case EventStageClear:
		return "StageClear"
	case EventSessionClear:
		return "SessionClear"
	case EventGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Event is a fire-and-forget notification issued after the transition that
// caused it has been applied.
type Event struct {
	Kind EventKind

	// Points awarded by a Correct event.
	Points int

	// Position of the prompt involved, in field percent.
	X, Y float64

	// Session totals at the time of the event.
	Score    int
	Stage    int
	Question int
	Life     int
}

// Listener receives session events. It is called on the goroutine that
// drives the session and must not block.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnEvent calls f(e).
func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}
