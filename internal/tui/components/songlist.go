package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/zmusic/zmusic/internal/core"
	"github.com/zmusic/zmusic/internal/tui/styles"
)

// SongList displays a scrollable list of tracks.
type SongList struct{}

// NewSongList creates a new SongList component.
func NewSongList() *SongList {
	return &SongList{}
}

// Render renders the list panel. cursor is the selected index; active marks
// the id of the track currently loaded in the player.
func (l *SongList) Render(tracks []core.Track, cursor int, activeID string, width, height int, focused bool) string {
	title := styles.PanelTitle("Songs", focused)

	inner := height - 4
	if inner < 1 {
		inner = 1
	}

	var lines []string
	if len(tracks) == 0 {
		lines = append(lines, styles.Muted.Render("No songs"))
	} else {
		start := 0
		if cursor >= inner {
			start = cursor - inner + 1
		}
		end := start + inner
		if end > len(tracks) {
			end = len(tracks)
		}

		for i := start; i < end; i++ {
			lines = append(lines, l.renderRow(&tracks[i], i == cursor, tracks[i].ID == activeID, width-6))
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body))
}

func (l *SongList) renderRow(track *core.Track, selected, active bool, width int) string {
	marker := "  "
	if active {
		marker = styles.Playing.Render("♪ ")
	}

	text := fmt.Sprintf("%s — %s", track.Title, track.DisplayArtist())
	if track.Album != "" {
		text += styles.Dim.Render(" · " + track.Album)
	}
	if track.IsLocal() {
		text += " " + styles.LocalTag.Render("[local]")
	}
	text = truncate(text, width)

	if selected {
		return marker + styles.Selected.Render(text)
	}
	return marker + text
}

func truncate(s string, maxLen int) string {
	if maxLen <= 3 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
