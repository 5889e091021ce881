package player

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FFPlayElement implements Element by driving ffplay as a subprocess, with
// ffprobe supplying the metadata-ready signal. Pause and seek restart the
// process at the remembered position, since ffplay has no control channel;
// volume changes apply from the next (re)start.
type FFPlayElement struct {
	playCmd  string
	probeCmd string

	mu       sync.Mutex
	url      string
	duration float64
	position float64
	volume   float64
	playing  bool
	startAt  time.Time
	proc     *exec.Cmd
	gen      int

	subMu sync.Mutex
	subs  map[int]func(Event)
	next  int
}

// NewFFPlayElement creates an element using the given player and probe
// binaries, typically ffplay and ffprobe.
func NewFFPlayElement(playCmd, probeCmd string) *FFPlayElement {
	return &FFPlayElement{
		playCmd:  playCmd,
		probeCmd: probeCmd,
		volume:   1.0,
		subs:     make(map[int]func(Event)),
	}
}

// Load assigns a new source, stopping any current playback, and blocks
// until the probe reports the source's duration.
func (f *FFPlayElement) Load(url string) (float64, error) {
	f.mu.Lock()
	f.stopLocked()
	f.url = url
	f.position = 0
	f.duration = 0
	f.mu.Unlock()

	duration, err := f.probeDuration(url)
	if err != nil {
		return 0, err
	}

	f.mu.Lock()
	f.duration = duration
	f.mu.Unlock()
	return duration, nil
}

// Play starts or resumes playback from the current position.
func (f *FFPlayElement) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.url == "" {
		return fmt.Errorf("no source loaded")
	}
	if f.playing {
		return nil
	}
	return f.startLocked()
}

// Pause stops the subprocess, remembering the position for resume.
func (f *FFPlayElement) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.playing {
		f.position = f.positionLocked()
		f.stopLocked()
	}
	return nil
}

// Seek moves the playback position, restarting the process when playing.
func (f *FFPlayElement) Seek(seconds float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if seconds < 0 {
		seconds = 0
	}
	f.position = seconds
	if f.playing {
		f.stopLocked()
		return f.startLocked()
	}
	return nil
}

// SetVolume stores the volume; it takes effect on the next (re)start.
func (f *FFPlayElement) SetVolume(volume float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = volume
	return nil
}

// Subscribe registers an event listener and returns its cancel function.
func (f *FFPlayElement) Subscribe(fn func(Event)) func() {
	f.subMu.Lock()
	defer f.subMu.Unlock()

	id := f.next
	f.next++
	f.subs[id] = fn

	return func() {
		f.subMu.Lock()
		defer f.subMu.Unlock()
		delete(f.subs, id)
	}
}

// Close stops playback and drops the source.
func (f *FFPlayElement) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopLocked()
	f.url = ""
	return nil
}

func (f *FFPlayElement) startLocked() error {
	args := []string{
		"-nodisp",
		"-autoexit",
		"-loglevel", "quiet",
		"-volume", strconv.Itoa(int(f.volume * 100)),
	}
	if f.position > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.2f", f.position))
	}
	args = append(args, f.url)

	cmd := exec.Command(f.playCmd, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", f.playCmd, err)
	}

	f.proc = cmd
	f.playing = true
	f.startAt = time.Now()
	f.gen++
	gen := f.gen

	go f.watch(cmd, gen)
	go f.tick(gen)
	return nil
}

func (f *FFPlayElement) stopLocked() {
	f.gen++ // invalidates the watcher and ticker for the old process
	if f.proc != nil && f.proc.Process != nil {
		_ = f.proc.Process.Kill()
	}
	f.proc = nil
	f.playing = false
}

// positionLocked extrapolates the position from wall-clock time since start.
func (f *FFPlayElement) positionLocked() float64 {
	if !f.playing {
		return f.position
	}
	pos := f.position + time.Since(f.startAt).Seconds()
	if f.duration > 0 && pos > f.duration {
		pos = f.duration
	}
	return pos
}

// watch waits for process exit and reports natural end.
func (f *FFPlayElement) watch(cmd *exec.Cmd, gen int) {
	err := cmd.Wait()

	f.mu.Lock()
	if f.gen != gen {
		// Superseded by a stop, seek or new load.
		f.mu.Unlock()
		return
	}
	f.playing = false
	f.proc = nil
	f.position = 0
	f.mu.Unlock()

	if err != nil {
		f.emit(Event{Type: EventError, Err: fmt.Errorf("%s exited: %w", f.playCmd, err)})
		return
	}
	f.emit(Event{Type: EventEnded})
}

// tick publishes extrapolated position events while the process runs.
func (f *FFPlayElement) tick(gen int) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		f.mu.Lock()
		if f.gen != gen || !f.playing {
			f.mu.Unlock()
			return
		}
		pos := f.positionLocked()
		f.mu.Unlock()

		f.emit(Event{Type: EventPosition, PositionSeconds: pos})
	}
}

func (f *FFPlayElement) emit(ev Event) {
	f.subMu.Lock()
	listeners := make([]func(Event), 0, len(f.subs))
	for _, fn := range f.subs {
		listeners = append(listeners, fn)
	}
	f.subMu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// probeDuration asks ffprobe for the source duration in seconds.
func (f *FFPlayElement) probeDuration(url string) (float64, error) {
	cmd := exec.Command(f.probeCmd,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		url,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%s failed: %w", f.probeCmd, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("unreadable duration %q: %w", strings.TrimSpace(string(out)), err)
	}
	return duration, nil
}
