package tui

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zmusic/zmusic/internal/core"
	"github.com/zmusic/zmusic/internal/guard"
	"github.com/zmusic/zmusic/internal/library"
	"github.com/zmusic/zmusic/internal/player"
	"github.com/zmusic/zmusic/internal/tui/components"
	"github.com/zmusic/zmusic/internal/tui/styles"
	"github.com/zmusic/zmusic/internal/zmusic/auth"
	"github.com/zmusic/zmusic/internal/zmusic/client"
)

const toastDuration = 4 * time.Second

// App holds the TUI application dependencies.
type App struct {
	store   *auth.Store
	catalog *client.Client
	engine  *player.Engine
	lib     *library.Library
}

// NewApp creates a new TUI application. lib may be nil when the local
// library is unavailable.
func NewApp(store *auth.Store, catalog *client.Client, engine *player.Engine, lib *library.Library) *App {
	return &App{
		store:   store,
		catalog: catalog,
		engine:  engine,
		lib:     lib,
	}
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	m := newModel(a)
	defer m.teardown()

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Model is the main TUI model.
type Model struct {
	app    *App
	width  int
	height int

	// Catalog
	tracks      []core.Track
	cursor      int
	sortBy      string
	loadingList bool
	listErr     error

	// Playback
	state       core.PlaybackState
	stateCh     <-chan core.PlaybackState
	stateStop   func()
	notifCh     <-chan player.Notification
	notifStop   func()
	toast       string
	toastStyle  lipgloss.Style
	toastExpiry time.Time

	// Search
	showSearch  bool
	searchInput textinput.Model

	showHelp bool
	quitting bool
}

func newModel(app *App) *Model {
	input := textinput.New()
	input.Placeholder = "Search songs..."

	stateCh, stateStop := app.engine.Subscribe()
	notifCh, notifStop := app.engine.Notifications()

	return &Model{
		app:         app,
		state:       app.engine.State(),
		stateCh:     stateCh,
		stateStop:   stateStop,
		notifCh:     notifCh,
		notifStop:   notifStop,
		searchInput: input,
		loadingList: true,
	}
}

// teardown releases the engine subscriptions.
func (m *Model) teardown() {
	m.stateStop()
	m.notifStop()
}

// Messages
type (
	tracksMsg  []core.Track
	listErrMsg struct{ err error }
	stateMsg   core.PlaybackState
	notifMsg   player.Notification
	expireMsg  struct{}
)

func (m *Model) fetchTracks(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var (
			tracks []core.Track
			err    error
		)
		if query == "" {
			tracks, err = m.app.catalog.ListSongs(ctx)
		} else {
			tracks, err = m.app.catalog.SearchSongs(ctx, query)
		}
		if err != nil {
			return listErrMsg{err: err}
		}

		if query == "" && m.app.lib != nil {
			if local, lerr := m.app.lib.List(); lerr == nil {
				tracks = append(tracks, local...)
			}
		}
		return tracksMsg(tracks)
	}
}

func (m *Model) waitState() tea.Cmd {
	return func() tea.Msg {
		if s, ok := <-m.stateCh; ok {
			return stateMsg(s)
		}
		return nil
	}
}

func (m *Model) waitNotif() tea.Cmd {
	return func() tea.Msg {
		if n, ok := <-m.notifCh; ok {
			return notifMsg(n)
		}
		return nil
	}
}

func (m *Model) playSelected() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.tracks) {
		return nil
	}
	track := m.tracks[m.cursor]
	return func() tea.Msg {
		// Failures surface through the engine's published state.
		_ = m.app.engine.SelectAndPlay(context.Background(), &track)
		return nil
	}
}

func (m *Model) applySort() {
	switch m.sortBy {
	case "plays":
		sort.SliceStable(m.tracks, func(i, j int) bool {
			return m.tracks[i].Plays > m.tracks[j].Plays
		})
	case "release":
		sort.SliceStable(m.tracks, func(i, j int) bool {
			return m.tracks[i].ReleaseDate > m.tracks[j].ReleaseDate
		})
	}
}

func expireToast() tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return expireMsg{}
	})
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchTracks(""),
		m.waitState(),
		m.waitNotif(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tracksMsg:
		m.loadingList = false
		m.listErr = nil
		m.tracks = msg
		m.applySort()
		if m.cursor >= len(m.tracks) {
			m.cursor = 0
		}
		return m, nil

	case listErrMsg:
		m.loadingList = false
		m.listErr = msg.err
		return m, nil

	case stateMsg:
		m.state = core.PlaybackState(msg)
		return m, m.waitState()

	case notifMsg:
		m.toast = msg.Message
		m.toastExpiry = time.Now().Add(toastDuration)
		if msg.Severity == player.SeverityError {
			m.toastStyle = styles.ErrorText
		} else {
			m.toastStyle = styles.Playing
		}
		return m, tea.Batch(m.waitNotif(), expireToast())

	case expireMsg:
		if time.Now().After(m.toastExpiry) {
			m.toast = ""
		}
		return m, nil
	}

	if m.showSearch {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showSearch {
		switch msg.String() {
		case "enter":
			m.showSearch = false
			query := m.searchInput.Value()
			m.searchInput.Blur()
			m.loadingList = true
			return m, m.fetchTracks(query)
		case "esc":
			m.showSearch = false
			m.searchInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			return m, cmd
		}
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tracks)-1 {
			m.cursor++
		}
	case "enter":
		return m, m.playSelected()
	case " ":
		m.app.engine.TogglePlayPause()
	case "s":
		m.app.engine.Stop()
	case "left":
		m.app.engine.SeekTo(m.state.PositionSeconds - 5)
	case "right":
		m.app.engine.SeekTo(m.state.PositionSeconds + 5)
	case "+", "=":
		m.app.engine.SetVolume(m.state.Volume + 0.05)
	case "-":
		m.app.engine.SetVolume(m.state.Volume - 0.05)
	case "/":
		m.showSearch = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink
	case "o":
		// Cycle the presentation ordering; the catalog itself is unordered.
		switch m.sortBy {
		case "":
			m.sortBy = "plays"
		case "plays":
			m.sortBy = "release"
		default:
			m.sortBy = ""
		}
		m.applySort()
	case "r":
		m.loadingList = true
		return m, m.fetchTracks("")
	case "?":
		m.showHelp = true
	}

	return m, nil
}

// View renders the UI.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	transport := components.NewNowPlaying().Render(m.state, m.width-2)
	statusBar := m.renderStatusBar()

	listHeight := m.height - lipgloss.Height(transport) - lipgloss.Height(statusBar) - 1
	var list string
	switch {
	case m.loadingList:
		list = styles.Panel(true).Width(m.width - 2).Height(listHeight).Render(styles.Muted.Render("Loading songs..."))
	case m.listErr != nil:
		list = styles.Panel(true).Width(m.width - 2).Height(listHeight).Render(styles.ErrorText.Render(m.listErr.Error()))
	default:
		activeID := ""
		if m.state.Track != nil {
			activeID = m.state.Track.ID
		}
		list = components.NewSongList().Render(m.tracks, m.cursor, activeID, m.width-2, listHeight, !m.showSearch)
	}

	sections := []string{list, transport, statusBar}
	if m.showSearch {
		search := styles.Panel(true).Width(m.width - 2).Render(m.searchInput.View())
		sections = []string{list, search, transport, statusBar}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderStatusBar() string {
	left := styles.Muted.Render("not logged in")
	if user := m.app.store.CurrentUser(); user != nil {
		who := user.DisplayName
		if guard.Check(m.app.store).Allowed {
			who += " (admin)"
		}
		left = styles.Muted.Render(who)
	}

	if m.toast != "" {
		left = m.toastStyle.Render(m.toast)
	}

	help := styles.Dim.Render("enter play · space pause · s stop · ←/→ seek · +/- vol · / search · q quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(help) - 2
	if gap < 1 {
		return left
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + help
}

func (m *Model) renderHelp() string {
	rows := []string{
		styles.Title.Render("zmusic keys"),
		"",
		"  ↑/k ↓/j     move selection",
		"  enter       play selected song",
		"  space       pause / resume",
		"  s           stop (rewind to start)",
		"  ←/→         seek ±5 seconds",
		"  +/-         volume",
		"  /           search the catalog",
		"  o           cycle ordering (plays, release date)",
		"  r           reload the song list",
		"  q           quit",
		"",
		styles.Muted.Render("press any key to close"),
	}
	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
