package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort            = "5000"
	DefaultFFmpegPath      = "ffmpeg"
	DefaultAudioBitrate    = "320k"
	DefaultMoveGracePeriod = 500 * time.Millisecond

	BackendYouTube = "youtube"
	BackendYtdlp   = "ytdlp"
)

type Config struct {
	Port            string
	DownloadDir     string
	TempDir         string
	FFmpegPath      string
	AudioBitrate    string
	MoveGracePeriod time.Duration
	PlaylistBackend string
	DatabaseURL     string
}

var AppConfig *Config

// Load reads an optional .env file and then the environment into AppConfig.
func Load() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := FromEnv()
	if err != nil {
		return err
	}

	AppConfig = cfg
	return nil
}

// FromEnv builds a Config from the current environment without touching AppConfig.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", DefaultPort),
		DownloadDir:     os.Getenv("DOWNLOAD_DIR"),
		TempDir:         getEnv("TEMP_DIR", os.TempDir()),
		FFmpegPath:      getEnv("FFMPEG_PATH", DefaultFFmpegPath),
		AudioBitrate:    getEnv("AUDIO_BITRATE", DefaultAudioBitrate),
		MoveGracePeriod: DefaultMoveGracePeriod,
		PlaylistBackend: getEnv("PLAYLIST_BACKEND", BackendYouTube),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
	}

	if cfg.DownloadDir == "" {
		dir, err := desktopDir()
		if err != nil {
			return nil, err
		}
		cfg.DownloadDir = dir
	}

	if v := os.Getenv("MOVE_GRACE_PERIOD"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			// Bare integers are taken as milliseconds.
			ms, convErr := strconv.Atoi(v)
			if convErr != nil {
				return nil, fmt.Errorf("invalid MOVE_GRACE_PERIOD %q: %w", v, err)
			}
			d = time.Duration(ms) * time.Millisecond
		}
		cfg.MoveGracePeriod = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.FFmpegPath == "" {
		return fmt.Errorf("FFMPEG_PATH must not be empty")
	}
	if c.MoveGracePeriod < 0 {
		return fmt.Errorf("MOVE_GRACE_PERIOD must be non-negative")
	}
	switch c.PlaylistBackend {
	case BackendYouTube, BackendYtdlp:
	default:
		return fmt.Errorf("unknown PLAYLIST_BACKEND %q (want %q or %q)", c.PlaylistBackend, BackendYouTube, BackendYtdlp)
	}
	return nil
}

// HistoryEnabled reports whether a database was configured.
func (c *Config) HistoryEnabled() bool {
	return c.DatabaseURL != ""
}

func desktopDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, "Desktop"), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
