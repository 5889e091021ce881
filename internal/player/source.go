package player

import (
	"path"
	"strings"
)

// SourceKind classifies a track's source locator into a handling strategy.
type SourceKind int

const (
	// SourceUnknown is an empty or unclassifiable locator.
	SourceUnknown SourceKind = iota
	// SourceVideoHost is a streaming video-host reference. Not playable.
	SourceVideoHost
	// SourceBlob is a transient local reference created at upload time.
	SourceBlob
	// SourceBackend is a backend-relative path resolved against the
	// configured base address.
	SourceBackend
	// SourceLocalPath is a filesystem or localhost reference.
	SourceLocalPath
	// SourceDirectAudio is a direct URL to an audio file.
	SourceDirectAudio
	// SourceRemote is any other remote audio source.
	SourceRemote
)

// String returns a short name for the kind.
func (k SourceKind) String() string {
	switch k {
	case SourceVideoHost:
		return "video-host"
	case SourceBlob:
		return "blob"
	case SourceBackend:
		return "backend"
	case SourceLocalPath:
		return "local"
	case SourceDirectAudio:
		return "audio"
	case SourceRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Playable returns true for kinds the engine can hand to the audio element.
func (k SourceKind) Playable() bool {
	switch k {
	case SourceBlob, SourceBackend, SourceLocalPath, SourceDirectAudio, SourceRemote:
		return true
	default:
		return false
	}
}

var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
	".flac": true,
	".aac":  true,
}

// ClassifySource maps a locator onto exactly one SourceKind. The predicates
// are ordered: unsupported kinds are identified first so no network probe is
// ever attempted for them, and each input matches the first predicate that
// accepts it.
func ClassifySource(locator string) SourceKind {
	switch {
	case locator == "":
		return SourceUnknown
	case strings.Contains(locator, "youtube.com") || strings.Contains(locator, "youtu.be"):
		return SourceVideoHost
	case strings.HasPrefix(locator, "blob:") || strings.HasPrefix(locator, "mem:"):
		return SourceBlob
	case strings.HasPrefix(locator, "/music/") || strings.HasPrefix(locator, "/covers/"):
		return SourceBackend
	case strings.HasPrefix(locator, "/") || strings.HasPrefix(locator, "./") || strings.HasPrefix(locator, "../"):
		return SourceLocalPath
	case audioExtensions[strings.ToLower(path.Ext(strippedPath(locator)))]:
		return SourceDirectAudio
	case strings.HasPrefix(locator, "http://localhost") || strings.HasPrefix(locator, "https://localhost"):
		return SourceLocalPath
	default:
		return SourceRemote
	}
}

// ResolveSource turns a locator into the address handed to the audio
// element. Backend-relative paths are resolved against the base address;
// everything else passes through unchanged.
func ResolveSource(locator, baseURL string) string {
	if ClassifySource(locator) != SourceBackend {
		return locator
	}
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return locator
	}
	return strings.TrimRight(baseURL, "/") + locator
}

// strippedPath removes any query or fragment so extension matching sees the
// path alone.
func strippedPath(locator string) string {
	if i := strings.IndexAny(locator, "?#"); i >= 0 {
		return locator[:i]
	}
	return locator
}
