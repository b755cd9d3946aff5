package database

import (
	"errors"
	"testing"

	"github.com/vicradon/yt-playlist-mp3/models"
)

func TestDisabledWithoutInit(t *testing.T) {
	DB = nil

	if Enabled() {
		t.Fatal("Enabled() = true before Init")
	}

	if err := SaveDownload(&models.DownloadRecord{ID: "x"}); !errors.Is(err, ErrDisabled) {
		t.Errorf("SaveDownload() error = %v, want ErrDisabled", err)
	}

	var r Recorder
	if _, err := r.ListDownloads(10); !errors.Is(err, ErrDisabled) {
		t.Errorf("ListDownloads() error = %v, want ErrDisabled", err)
	}
}
