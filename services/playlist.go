package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/vicradon/yt-playlist-mp3/models"
)

const (
	DefaultVideoTitle     = "Untitled"
	DefaultVideoAuthor    = "Unknown"
	DefaultPlaylistTitle  = "YouTube Playlist"
	DefaultPlaylistAuthor = "YouTube"
)

var playlistParam = regexp.MustCompile(`[&?]list=([^&]+)`)

// PlaylistProvider fetches raw playlist metadata for a bare playlist ID.
type PlaylistProvider interface {
	FetchPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)
}

type PlaylistService struct {
	provider PlaylistProvider
}

func NewPlaylistService(provider PlaylistProvider) *PlaylistService {
	return &PlaylistService{provider: provider}
}

// ExtractPlaylistID returns the value of a list= query parameter, or the
// input unchanged when there is none.
func ExtractPlaylistID(input string) string {
	if m := playlistParam.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	return input
}

func (s *PlaylistService) ResolvePlaylist(ctx context.Context, input string) (*models.Playlist, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrInvalidPlaylist
	}

	playlistID := ExtractPlaylistID(input)

	playlist, err := s.provider.FetchPlaylist(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPlaylistUnavailable, playlistID, err)
	}
	if playlist == nil || playlist.Videos == nil {
		return nil, fmt.Errorf("%w: %s: no items in response", ErrPlaylistUnavailable, playlistID)
	}

	return normalizePlaylist(playlistID, playlist), nil
}

func normalizePlaylist(playlistID string, p *models.Playlist) *models.Playlist {
	out := &models.Playlist{
		ID:     p.ID,
		Title:  orDefault(p.Title, DefaultPlaylistTitle),
		Author: orDefault(p.Author, DefaultPlaylistAuthor),
		Videos: make([]models.VideoInfo, 0, len(p.Videos)),
	}
	if out.ID == "" {
		out.ID = playlistID
	}

	for _, v := range p.Videos {
		v.Title = orDefault(v.Title, DefaultVideoTitle)
		v.Author = orDefault(v.Author, DefaultVideoAuthor)
		v.Duration = orDefault(v.Duration, FormatDuration(0))
		out.Videos = append(out.Videos, v)
	}
	return out
}

// FormatDuration renders seconds as m:ss. Minutes are not wrapped into hours.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
