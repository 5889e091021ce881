package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/zmusic/zmusic/internal/core"
	"github.com/zmusic/zmusic/internal/tui/styles"
)

// NowPlaying displays the playback transport bar.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component.
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the transport panel.
func (n *NowPlaying) Render(state core.PlaybackState, width int) string {
	var content string
	switch {
	case state.Loading:
		content = styles.Muted.Render("Loading…")
	case state.Track == nil:
		content = styles.Muted.Render("No track playing")
	default:
		content = n.renderTrack(state, width-4)
	}

	if state.LastError != "" {
		content = lipgloss.JoinVertical(lipgloss.Left,
			content,
			styles.ErrorText.Render(state.LastError),
		)
	}

	return styles.Panel(false).Width(width).Render(content)
}

func (n *NowPlaying) renderTrack(state core.PlaybackState, width int) string {
	track := state.Track

	icon := styles.StatusIcon(state.Playing, state.Loading)
	title := styles.Title.Render(track.Title)
	artist := styles.Subtitle.Render(track.DisplayArtist())

	line := fmt.Sprintf("%s %s %s", icon, title, artist)
	if track.IsLocal() {
		line += " " + styles.LocalTag.Render("[local]")
	}

	progressWidth := width - 16
	if progressWidth < 10 {
		progressWidth = 10
	}
	bar := styles.ProgressBar(state.ProgressPercent(), progressWidth)
	progress := fmt.Sprintf("%s %s %s",
		formatSeconds(state.PositionSeconds),
		bar,
		formatSeconds(state.TotalSeconds),
	)

	volume := styles.Muted.Render(fmt.Sprintf("vol %d%%", int(state.Volume*100)))

	return lipgloss.JoinVertical(lipgloss.Left,
		line,
		progress+"  "+volume,
	)
}

func formatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
