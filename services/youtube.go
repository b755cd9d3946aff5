package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/vicradon/yt-playlist-mp3/models"
)

// AudioSource validates video IDs and opens their audio streams.
type AudioSource interface {
	ValidateID(videoID string) (string, error)
	OpenAudio(ctx context.Context, videoID string) (io.ReadCloser, error)
}

// YouTubeService is backed by github.com/kkdai/youtube/v2 and serves both as a
// playlist provider and as the audio stream source.
type YouTubeService struct {
	client *youtube.Client
}

func NewYouTubeService() *YouTubeService {
	return &YouTubeService{client: &youtube.Client{}}
}

func (s *YouTubeService) FetchPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	p, err := s.client.GetPlaylistContext(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	videos := make([]models.VideoInfo, 0, len(p.Videos))
	for _, entry := range p.Videos {
		if entry == nil {
			continue
		}
		videos = append(videos, models.VideoInfo{
			ID:        entry.ID,
			Title:     entry.Title,
			Author:    entry.Author,
			Duration:  FormatDuration(int(entry.Duration.Seconds())),
			Thumbnail: largestThumbnail(entry.Thumbnails),
		})
	}

	return &models.Playlist{
		ID:     p.ID,
		Title:  p.Title,
		Author: p.Author,
		Videos: videos,
	}, nil
}

func largestThumbnail(thumbs youtube.Thumbnails) string {
	var best *youtube.Thumbnail
	for i := range thumbs {
		if best == nil || thumbs[i].Width > best.Width {
			best = &thumbs[i]
		}
	}
	if best == nil {
		return ""
	}
	return best.URL
}

func (s *YouTubeService) ValidateID(videoID string) (string, error) {
	id, err := youtube.ExtractVideoID(strings.TrimSpace(videoID))
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidVideoID, videoID, err)
	}
	if id == "" {
		return "", fmt.Errorf("%w %q", ErrInvalidVideoID, videoID)
	}
	return id, nil
}

func (s *YouTubeService) OpenAudio(ctx context.Context, videoID string) (io.ReadCloser, error) {
	video, err := s.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrVideoUnavailable, videoID, err)
	}

	format := SelectAudioFormat(video.Formats)
	if format == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAudioFormat, videoID)
	}

	stream, _, err := s.client.GetStreamContext(ctx, video, format)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: open stream %s: %w", ErrVideoUnavailable, videoID, err)
	}
	return stream, nil
}

// SelectAudioFormat picks the highest-bitrate audio-only format, or nil.
func SelectAudioFormat(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}
