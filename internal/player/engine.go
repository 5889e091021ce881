package player

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/zmusic/zmusic/internal/core"
	zerrors "github.com/zmusic/zmusic/internal/errors"
	"github.com/zmusic/zmusic/internal/logging"
)

// Severity classifies a transient notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a transient user-facing message, separate from the
// engine's persistent last-error state.
type Notification struct {
	Message  string
	Severity Severity
}

// Probe checks that a resolved address is reachable before the engine
// commits to it.
type Probe func(ctx context.Context, url string) error

// Engine drives the single audio element through load, play, pause, seek
// and volume operations and publishes state snapshots to subscribers.
//
// Engines are safe for concurrent use. Overlapping selections are resolved
// by a monotonically increasing sequence number: a load that completes after
// a newer selection has started is discarded without touching state.
type Engine struct {
	element Element
	baseURL string
	probe   Probe
	logger  *log.Logger

	mu      sync.Mutex
	state   core.PlaybackState
	seq     uint64
	subs    map[int]chan core.PlaybackState
	notifs  map[int]chan Notification
	nextSub int
	detach  func()
	closed  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithProbe overrides the reachability probe used for backend sources.
func WithProbe(p Probe) Option {
	return func(e *Engine) { e.probe = p }
}

// WithLogger sets the engine's logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithVolume sets the initial volume, clamped to [0, 1].
func WithVolume(volume float64) Option {
	return func(e *Engine) { e.state.Volume = clampVolume(volume) }
}

// NewEngine creates an engine owning the given element. baseURL is the
// backend origin used to resolve backend-relative source locators.
func NewEngine(element Element, baseURL string, opts ...Option) *Engine {
	e := &Engine{
		element: element,
		baseURL: baseURL,
		probe:   headProbe,
		logger:  logging.Nop(),
		subs:    make(map[int]chan core.PlaybackState),
		notifs:  make(map[int]chan Notification),
	}
	e.state.Volume = 1.0

	for _, opt := range opts {
		opt(e)
	}

	e.detach = element.Subscribe(e.onElementEvent)
	_ = element.SetVolume(e.state.Volume)

	return e
}

// State returns a snapshot of the current playback state.
func (e *Engine) State() core.PlaybackState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe registers a state listener. The returned cancel function must
// be called on teardown; slow listeners miss snapshots rather than blocking
// the engine.
func (e *Engine) Subscribe() (<-chan core.PlaybackState, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSub
	e.nextSub++
	ch := make(chan core.PlaybackState, 16)
	e.subs[id] = ch

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(ch)
		}
	}
}

// Notifications registers a listener for transient toasts.
func (e *Engine) Notifications() (<-chan Notification, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSub
	e.nextSub++
	ch := make(chan Notification, 16)
	e.notifs[id] = ch

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.notifs[id]; ok {
			delete(e.notifs, id)
			close(ch)
		}
	}
}

// SelectAndPlay loads the given track and starts playback, preempting
// whatever was active. Failures are recorded in the published state's
// LastError as well as returned; an unsupported source never reaches the
// element or the network.
func (e *Engine) SelectAndPlay(ctx context.Context, track *core.Track) error {
	if track == nil {
		return e.reject(zerrors.UnsupportedSource("no track selected"))
	}

	kind := ClassifySource(track.SourceLocator)
	e.logger.Debug("select track", "id", track.ID, "kind", kind.String())

	// Unsupported kinds are rejected before the selection is committed and
	// before any probe: the prior state, including a track already playing,
	// stays untouched except for the error message.
	if kind == SourceUnknown {
		return e.reject(zerrors.UnsupportedSource("track %q has no file path", track.Title))
	}
	if kind == SourceVideoHost {
		return e.reject(zerrors.UnsupportedSource("video-host sources are not supported, use a direct audio URL"))
	}

	e.mu.Lock()
	e.seq++
	seq := e.seq
	resolved := ResolveSource(track.SourceLocator, e.baseURL)
	e.state.Loading = true
	e.state.Playing = false
	e.state.LastError = ""
	e.mu.Unlock()
	e.publish()

	if kind == SourceBackend {
		if err := e.probe(ctx, resolved); err != nil {
			return e.fail(seq, zerrors.FetchWrap(err, fmt.Sprintf("cannot access file from backend: %s", resolved)))
		}
		if e.stale(seq) {
			return nil
		}
	}

	duration, err := e.element.Load(resolved)
	if err != nil {
		return e.fail(seq, zerrors.FetchWrap(err, fmt.Sprintf("cannot load audio: %s", resolved)))
	}
	if e.stale(seq) {
		return nil
	}

	if err := e.element.Play(); err != nil {
		return e.fail(seq, zerrors.FetchWrap(err, "playback failed to start"))
	}

	e.mu.Lock()
	if e.seq != seq {
		// A newer selection won the race while we were starting.
		e.mu.Unlock()
		return nil
	}
	if duration == 0 {
		duration = track.DurationSeconds
	}
	e.state.Track = track
	e.state.Playing = true
	e.state.Loading = false
	e.state.PositionSeconds = 0
	e.state.TotalSeconds = duration
	e.mu.Unlock()

	e.publish()
	e.notify(Notification{Message: "Now playing: " + track.Title, Severity: SeveritySuccess})
	return nil
}

// TogglePlayPause flips between playing and paused. No-op when nothing is
// selected; never touches the loading flag.
func (e *Engine) TogglePlayPause() {
	e.mu.Lock()
	if e.state.Track == nil {
		e.mu.Unlock()
		return
	}

	if e.state.Playing {
		_ = e.element.Pause()
		e.state.Playing = false
	} else {
		_ = e.element.Play()
		e.state.Playing = true
	}
	e.mu.Unlock()
	e.publish()
}

// Stop pauses playback and rewinds to the start. The active track is kept,
// distinguishing "paused at start" from "nothing selected".
func (e *Engine) Stop() {
	e.mu.Lock()
	_ = e.element.Pause()
	_ = e.element.Seek(0)
	e.state.Playing = false
	e.state.PositionSeconds = 0
	e.mu.Unlock()
	e.publish()
}

// SeekTo moves playback to the given position. The stored position is
// updated optimistically and reconciled on the element's next position
// event.
func (e *Engine) SeekTo(seconds float64) {
	e.mu.Lock()
	if seconds < 0 {
		seconds = 0
	}
	if e.state.TotalSeconds > 0 && seconds > e.state.TotalSeconds {
		seconds = e.state.TotalSeconds
	}
	_ = e.element.Seek(seconds)
	e.state.PositionSeconds = seconds
	e.mu.Unlock()
	e.publish()
}

// SetVolume sets the volume, clamped to [0, 1].
func (e *Engine) SetVolume(volume float64) {
	volume = clampVolume(volume)

	e.mu.Lock()
	_ = e.element.SetVolume(volume)
	e.state.Volume = volume
	e.mu.Unlock()
	e.publish()
}

// Close tears down the element subscription and releases the element.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	detach := e.detach
	for id, ch := range e.subs {
		delete(e.subs, id)
		close(ch)
	}
	for id, ch := range e.notifs {
		delete(e.notifs, id)
		close(ch)
	}
	e.mu.Unlock()

	if detach != nil {
		detach()
	}
	return e.element.Close()
}

func (e *Engine) onElementEvent(ev Event) {
	switch ev.Type {
	case EventPosition:
		e.mu.Lock()
		if e.state.Track != nil {
			pos := ev.PositionSeconds
			if e.state.TotalSeconds > 0 && pos > e.state.TotalSeconds {
				pos = e.state.TotalSeconds
			}
			e.state.PositionSeconds = pos
		}
		e.mu.Unlock()
		e.publish()
	case EventEnded:
		e.mu.Lock()
		e.state.Track = nil
		e.state.Playing = false
		e.state.PositionSeconds = 0
		e.state.TotalSeconds = 0
		e.mu.Unlock()
		e.publish()
	case EventError:
		e.mu.Lock()
		if ev.Err != nil {
			e.state.LastError = ev.Err.Error()
		} else {
			e.state.LastError = "cannot play this track"
		}
		e.state.Playing = false
		e.state.Loading = false
		e.mu.Unlock()
		e.publish()
	}
}

// reject records an error without committing a selection; everything else
// about the current state is preserved.
func (e *Engine) reject(err error) error {
	e.mu.Lock()
	e.state.LastError = err.Error()
	e.mu.Unlock()

	e.publish()
	e.notify(Notification{Message: err.Error(), Severity: SeverityError})
	return err
}

// fail records an error for the given selection unless a newer selection
// has superseded it.
func (e *Engine) fail(seq uint64, err error) error {
	e.mu.Lock()
	if e.seq != seq {
		e.mu.Unlock()
		return nil
	}
	e.state.Loading = false
	e.state.Playing = false
	e.state.LastError = err.Error()
	e.mu.Unlock()

	e.publish()
	e.notify(Notification{Message: err.Error(), Severity: SeverityError})
	e.logger.Debug("playback error", "err", err)
	return err
}

func (e *Engine) stale(seq uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq != seq
}

func (e *Engine) publish() {
	e.mu.Lock()
	snapshot := e.state
	channels := make([]chan core.PlaybackState, 0, len(e.subs))
	for _, ch := range e.subs {
		channels = append(channels, ch)
	}
	e.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func (e *Engine) notify(n Notification) {
	e.mu.Lock()
	channels := make([]chan Notification, 0, len(e.notifs))
	for _, ch := range e.notifs {
		channels = append(channels, ch)
	}
	e.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- n:
		default:
		}
	}
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// headProbe is the default reachability probe.
func headProbe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}
