package player

import "testing"

func TestClassifySource(t *testing.T) {
	tests := []struct {
		name    string
		locator string
		want    SourceKind
	}{
		{"empty", "", SourceUnknown},
		{"youtube watch URL", "https://www.youtube.com/watch?v=abc123", SourceVideoHost},
		{"youtube short URL", "https://youtu.be/abc123", SourceVideoHost},
		{"blob reference", "blob:https://app.example.com/550e8400", SourceBlob},
		{"memory reference", "mem:upload-1", SourceBlob},
		{"backend music path", "/music/song.mp3", SourceBackend},
		{"backend cover path", "/covers/art.jpg", SourceBackend},
		{"absolute path", "/home/user/music/song.flac", SourceLocalPath},
		{"relative path", "./song.mp3", SourceLocalPath},
		{"parent relative path", "../music/song.mp3", SourceLocalPath},
		{"direct mp3 URL", "https://cdn.example.com/track.mp3", SourceDirectAudio},
		{"direct flac URL with query", "https://cdn.example.com/track.flac?token=x", SourceDirectAudio},
		{"uppercase extension", "https://cdn.example.com/TRACK.MP3", SourceDirectAudio},
		{"localhost URL", "http://localhost:7151/stream/9", SourceLocalPath},
		{"localhost https URL", "https://localhost:7151/stream/9", SourceLocalPath},
		{"other remote URL", "https://stream.example.com/radio", SourceRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifySource(tt.locator); got != tt.want {
				t.Errorf("ClassifySource(%q) = %v, want %v", tt.locator, got, tt.want)
			}
		})
	}
}

func TestClassifySourceVideoHostBeatsExtension(t *testing.T) {
	// A video-host locator must stay unplayable even when it ends in an
	// audio extension.
	got := ClassifySource("https://youtube.com/download/track.mp3")
	if got != SourceVideoHost {
		t.Errorf("ClassifySource() = %v, want %v", got, SourceVideoHost)
	}
}

func TestPlayable(t *testing.T) {
	for _, kind := range []SourceKind{SourceBlob, SourceBackend, SourceLocalPath, SourceDirectAudio, SourceRemote} {
		if !kind.Playable() {
			t.Errorf("%v.Playable() = false, want true", kind)
		}
	}
	for _, kind := range []SourceKind{SourceUnknown, SourceVideoHost} {
		if kind.Playable() {
			t.Errorf("%v.Playable() = true, want false", kind)
		}
	}
}

func TestResolveSource(t *testing.T) {
	tests := []struct {
		name    string
		locator string
		want    string
	}{
		{"backend path gains base", "/music/song.mp3", "https://localhost:7151/music/song.mp3"},
		{"absolute URL passes through", "https://cdn.example.com/track.mp3", "https://cdn.example.com/track.mp3"},
		{"local path passes through", "/home/user/song.mp3", "/home/user/song.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveSource(tt.locator, "https://localhost:7151/")
			if got != tt.want {
				t.Errorf("ResolveSource(%q) = %q, want %q", tt.locator, got, tt.want)
			}
		})
	}
}
