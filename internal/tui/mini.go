package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zmusic/zmusic/internal/core"
	"github.com/zmusic/zmusic/internal/player"
	"github.com/zmusic/zmusic/internal/tui/components"
	"github.com/zmusic/zmusic/internal/tui/styles"
)

// RunNowPlaying plays a single track and blocks with a compact transport
// UI until the track ends or the user quits.
func (a *App) RunNowPlaying(track *core.Track) error {
	stateCh, stateStop := a.engine.Subscribe()
	notifCh, notifStop := a.engine.Notifications()
	defer stateStop()
	defer notifStop()

	m := &miniModel{
		engine:  a.engine,
		track:   track,
		state:   a.engine.State(),
		stateCh: stateCh,
		notifCh: notifCh,
	}

	_, err := tea.NewProgram(m).Run()
	return err
}

// miniModel is the single-track transport used by the play command.
type miniModel struct {
	engine  *player.Engine
	track   *core.Track
	width   int
	state   core.PlaybackState
	stateCh <-chan core.PlaybackState
	notifCh <-chan player.Notification
	toast   string
	toastAt time.Time
	started bool
	done    bool
}

func (m *miniModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			_ = m.engine.SelectAndPlay(context.Background(), m.track)
			return nil
		},
		m.waitState(),
		m.waitNotif(),
	)
}

func (m *miniModel) waitState() tea.Cmd {
	return func() tea.Msg {
		if s, ok := <-m.stateCh; ok {
			return stateMsg(s)
		}
		return nil
	}
}

func (m *miniModel) waitNotif() tea.Cmd {
	return func() tea.Msg {
		if n, ok := <-m.notifCh; ok {
			return notifMsg(n)
		}
		return nil
	}
}

func (m *miniModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.done = true
			m.engine.Stop()
			return m, tea.Quit
		case " ":
			m.engine.TogglePlayPause()
		case "s":
			m.engine.Stop()
		case "left":
			m.engine.SeekTo(m.state.PositionSeconds - 5)
		case "right":
			m.engine.SeekTo(m.state.PositionSeconds + 5)
		case "+", "=":
			m.engine.SetVolume(m.state.Volume + 0.05)
		case "-":
			m.engine.SetVolume(m.state.Volume - 0.05)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case stateMsg:
		m.state = core.PlaybackState(msg)
		if m.state.HasTrack() || m.state.Loading {
			m.started = true
		} else if m.started {
			// Track finished or failed to load.
			m.done = true
			return m, tea.Quit
		}
		if !m.started && m.state.LastError != "" {
			m.done = true
			return m, tea.Quit
		}
		return m, m.waitState()

	case notifMsg:
		m.toast = msg.Message
		m.toastAt = time.Now()
		return m, m.waitNotif()
	}

	return m, nil
}

func (m *miniModel) View() string {
	if m.done {
		if m.state.LastError != "" {
			return styles.ErrorText.Render(m.state.LastError) + "\n"
		}
		return ""
	}

	width := m.width
	if width == 0 {
		width = 80
	}

	bar := components.NewNowPlaying().Render(m.state, width-2)
	help := styles.Dim.Render("space pause · s stop · ←/→ seek · +/- vol · q quit")

	lines := []string{bar, help}
	if m.toast != "" && time.Since(m.toastAt) < toastDuration {
		lines = append([]string{styles.Muted.Render(m.toast)}, lines...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}
