package services

import (
	"context"
	"errors"
)

// Input errors. Callers should treat these as client mistakes.
var (
	ErrInvalidPlaylist = errors.New("invalid playlist url or id")
	ErrInvalidVideoID  = errors.New("invalid video id")
	ErrNoAudioFormat   = errors.New("no audio format")
	ErrEmptyBatch      = errors.New("no videos to download")
)

// Upstream and filesystem errors.
var (
	ErrPlaylistUnavailable = errors.New("playlist could not be fetched")
	ErrVideoUnavailable    = errors.New("video could not be fetched")
	ErrTranscode           = errors.New("transcode failed")
	ErrTempFileMissing     = errors.New("temporary file not found")
	ErrRelocate            = errors.New("moving file to destination failed")
)

var userErrors = []error{
	ErrInvalidPlaylist,
	ErrInvalidVideoID,
	ErrNoAudioFormat,
	ErrEmptyBatch,
	ErrPlaylistUnavailable,
	ErrVideoUnavailable,
	ErrTranscode,
	ErrTempFileMissing,
	ErrRelocate,
}

// IsClientError reports whether err was caused by the request itself.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPlaylist) ||
		errors.Is(err, ErrInvalidVideoID) ||
		errors.Is(err, ErrNoAudioFormat) ||
		errors.Is(err, ErrEmptyBatch)
}

// UserMessage maps err to the message shown to clients. Wrapped detail stays in the logs.
func UserMessage(err error) string {
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	for _, known := range userErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "download failed"
}
