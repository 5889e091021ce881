package player

// EventType identifies an audio element signal.
type EventType int

const (
	// EventPosition reports the element's current playback position.
	EventPosition EventType = iota
	// EventEnded reports that the current source played to its natural end.
	EventEnded
	// EventError reports an element-level playback failure.
	EventError
)

// Event is a signal published by an audio element.
type Event struct {
	Type            EventType
	PositionSeconds float64
	Err             error
}

// Element abstracts the single underlying audio primitive. The engine is
// its only owner; no other component addresses it directly.
//
// Load assigns a new source and blocks until the element has read enough
// metadata to report the source's duration, or fails. Position, end-of-track
// and asynchronous failures are delivered through the subscription; Subscribe
// returns a cancel function that must be called on teardown.
type Element interface {
	Load(url string) (durationSeconds float64, err error)
	Play() error
	Pause() error
	Seek(seconds float64) error
	SetVolume(volume float64) error
	Subscribe(fn func(Event)) (cancel func())
	Close() error
}
