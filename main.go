package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/vicradon/yt-playlist-mp3/config"
	"github.com/vicradon/yt-playlist-mp3/database"
	"github.com/vicradon/yt-playlist-mp3/handlers"
	"github.com/vicradon/yt-playlist-mp3/services"
	"github.com/vicradon/yt-playlist-mp3/utils"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	cfg := config.AppConfig

	if err := os.MkdirAll(cfg.DownloadDir, 0755); err != nil {
		log.Fatal("Failed to create download directory:", err)
	}

	// Initialize database
	var history handlers.HistoryReader
	if cfg.HistoryEnabled() {
		if err := database.Init(cfg.DatabaseURL); err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		history = database.Recorder{}
	} else {
		log.Println("DATABASE_URL not set, download history disabled")
	}

	// Initialize services
	youtubeService := services.NewYouTubeService()

	var provider services.PlaylistProvider = youtubeService
	if cfg.PlaylistBackend == config.BackendYtdlp {
		provider = services.NewYtdlpPlaylistProvider()
	}

	storageService := services.NewStorageService(cfg.DownloadDir)
	encoder := utils.NewFFmpegEncoder(cfg.FFmpegPath, cfg.AudioBitrate)

	conversionService := services.NewConversionService(
		youtubeService,
		encoder,
		storageService,
		cfg.TempDir,
		cfg.MoveGracePeriod,
	)
	if history != nil {
		conversionService.SetRecorder(database.Recorder{})
	}

	router := handlers.NewRouter(handlers.Dependencies{
		Playlists:   services.NewPlaylistService(provider),
		Conversions: conversionService,
		Batches:     services.NewBatchService(conversionService, storageService),
		Storage:     storageService,
		History:     history,
	})

	addr := "0.0.0.0:" + cfg.Port
	fmt.Printf("Server starting on http://%s (playlists via %s, saving to %s)\n", addr, cfg.PlaylistBackend, cfg.DownloadDir)
	log.Fatal(http.ListenAndServe(addr, router))
}
