package services

import (
	"context"
	"fmt"

	"github.com/vicradon/yt-playlist-mp3/models"
	"github.com/ytget/ytdlp/v2"
)

const thumbnailURLTemplate = "https://i.ytimg.com/vi/%s/hqdefault.jpg"

// YtdlpPlaylistProvider lists playlists through github.com/ytget/ytdlp/v2.
// It only knows IDs and titles; the remaining fields fall back to defaults.
type YtdlpPlaylistProvider struct{}

func NewYtdlpPlaylistProvider() *YtdlpPlaylistProvider {
	return &YtdlpPlaylistProvider{}
}

func (p *YtdlpPlaylistProvider) FetchPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("get playlist items: %w", err)
	}

	videos := make([]models.VideoInfo, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		videos = append(videos, models.VideoInfo{
			ID:        it.VideoID,
			Title:     it.Title,
			Thumbnail: fmt.Sprintf(thumbnailURLTemplate, it.VideoID),
		})
	}

	return &models.Playlist{ID: playlistID, Videos: videos}, nil
}
