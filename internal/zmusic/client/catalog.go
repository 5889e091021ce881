package client

import (
	"context"

	"github.com/zmusic/zmusic/internal/core"
)

// ListSongs fetches the full song collection. Every call re-fetches; the
// backend returns the whole collection in one response.
func (c *Client) ListSongs(ctx context.Context) ([]core.Track, error) {
	var envelope songListEnvelope
	if err := c.Get(ctx, "/songs", &envelope); err != nil {
		return nil, err
	}
	return convertSongs(envelope.songs()), nil
}

// GetSong fetches a single song by id.
func (c *Client) GetSong(ctx context.Context, id string) (*core.Track, error) {
	var song songResponse
	if err := c.Get(ctx, songPath(id), &song); err != nil {
		return nil, err
	}
	return convertSong(&song), nil
}

// SearchSongs searches the catalog. The query is URL-encoded by the path
// builder.
func (c *Client) SearchSongs(ctx context.Context, query string) ([]core.Track, error) {
	path := BuildURL("/songs/search", map[string]string{"q": query})

	var envelope songListEnvelope
	if err := c.Get(ctx, path, &envelope); err != nil {
		return nil, err
	}
	return convertSongs(envelope.songs()), nil
}

// DeleteSong removes a song from the catalog. Admin-only; the backend
// answers 204 on success.
func (c *Client) DeleteSong(ctx context.Context, id string) error {
	return c.Delete(ctx, songPath(id))
}
