package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vicradon/yt-playlist-mp3/config"
	"github.com/vicradon/yt-playlist-mp3/database"
	"github.com/vicradon/yt-playlist-mp3/models"
	"github.com/vicradon/yt-playlist-mp3/services"
	"github.com/vicradon/yt-playlist-mp3/utils"
)

var (
	storageService    *services.StorageService
	playlistService   *services.PlaylistService
	conversionService *services.ConversionService
	batchService      *services.BatchService

	// last resolved playlist, reused by "all"
	current *models.Playlist
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
	if cfg.HistoryEnabled() {
		if err := database.Init(cfg.DatabaseURL); err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
	}

	// Initialize services
	youtubeService := services.NewYouTubeService()
	var provider services.PlaylistProvider = youtubeService
	if cfg.PlaylistBackend == config.BackendYtdlp {
		provider = services.NewYtdlpPlaylistProvider()
	}

	storageService = services.NewStorageService(cfg.DownloadDir)
	playlistService = services.NewPlaylistService(provider)
	conversionService = services.NewConversionService(
		youtubeService,
		utils.NewFFmpegEncoder(cfg.FFmpegPath, cfg.AudioBitrate),
		storageService,
		cfg.TempDir,
		cfg.MoveGracePeriod,
	)
	if database.Enabled() {
		conversionService.SetRecorder(database.Recorder{})
	}
	batchService = services.NewBatchService(conversionService, storageService)

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Playlist MP3 CLI ===")
	fmt.Println()

	for {
		fmt.Println("\nCommands:")
		fmt.Println("  1. playlist - Load a YouTube playlist")
		fmt.Println("  2. download - Download one video as MP3")
		fmt.Println("  3. all - Download the loaded playlist")
		fmt.Println("  4. history - Show recent downloads")
		fmt.Println("  5. list - List MP3 files")
		fmt.Println("  6. quit - Exit")
		fmt.Print("\nEnter command: ")

		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		switch input {
		case "1", "playlist":
			loadPlaylist(reader)
		case "2", "download":
			downloadVideo(reader)
		case "3", "all":
			downloadAll()
		case "4", "history":
			showHistory()
		case "5", "list":
			listFiles()
		case "6", "quit", "exit":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Unknown command. Try again.")
		}
	}
}

func loadPlaylist(reader *bufio.Reader) {
	fmt.Println("\n=== Load Playlist ===")

	fmt.Print("Enter playlist URL or ID: ")
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" {
		fmt.Println("Playlist cannot be empty.")
		return
	}

	playlist, err := playlistService.ResolvePlaylist(context.Background(), input)
	if err != nil {
		fmt.Printf("✗ Could not load playlist: %v\n", err)
		return
	}
	current = playlist

	fmt.Printf("\n%s by %s (%d videos)\n", playlist.Title, playlist.Author, len(playlist.Videos))
	for i, v := range playlist.Videos {
		fmt.Printf("  %d. %s [%s] (%s)\n", i+1, v.Title, v.Duration, v.ID)
	}
}

func downloadVideo(reader *bufio.Reader) {
	fmt.Println("\n=== Download Video ===")

	fmt.Print("Enter video ID or URL: ")
	videoID, _ := reader.ReadString('\n')
	videoID = strings.TrimSpace(videoID)

	if videoID == "" {
		fmt.Println("Video ID cannot be empty.")
		return
	}

	fmt.Print("Enter title (optional): ")
	title, _ := reader.ReadString('\n')
	title = strings.TrimSpace(title)

	var res *services.ConversionResult
	err := withSpinner("Downloading...", func() error {
		var err error
		res, err = conversionService.DownloadOne(context.Background(), models.DownloadRequest{
			VideoID: videoID,
			Title:   title,
		})
		return err
	})
	if err != nil {
		fmt.Printf("✗ Download failed: %s\n", services.UserMessage(err))
		return
	}

	fmt.Printf("✓ Download completed: %s\n", res.FileName)
	fmt.Printf("File saved to: %s (%s)\n", res.Path, storageService.FormatFileSize(res.Size))
}

func downloadAll() {
	fmt.Println("\n=== Download Playlist ===")

	if current == nil {
		fmt.Println("No playlist loaded. Use 'playlist' first.")
		return
	}

	videos := make([]models.DownloadRequest, 0, len(current.Videos))
	for _, v := range current.Videos {
		videos = append(videos, models.DownloadRequest{VideoID: v.ID, Title: v.Title})
	}

	var batch *services.BatchResult
	err := withSpinner(fmt.Sprintf("Downloading %d videos...", len(videos)), func() error {
		var err error
		batch, err = batchService.DownloadAll(context.Background(), videos)
		return err
	})
	if err != nil {
		fmt.Printf("✗ Batch failed: %s\n", services.UserMessage(err))
		return
	}

	ok := 0
	for i, r := range batch.Results {
		if r.Success {
			ok++
			fmt.Printf("  %d. ✓ %s\n", i+1, r.FileName)
		} else {
			fmt.Printf("  %d. ✗ %s: %s\n", i+1, r.VideoID, r.Error)
		}
	}
	fmt.Printf("\n%d/%d saved to %s\n", ok, len(batch.Results), batch.Folder)
}

func showHistory() {
	fmt.Println("\n=== Download History ===")

	if !database.Enabled() {
		fmt.Println("History is disabled. Set DATABASE_URL to enable it.")
		return
	}

	records, err := database.ListDownloads(20)
	if err != nil {
		fmt.Printf("Error loading history: %v\n", err)
		return
	}
	if len(records) == 0 {
		fmt.Println("No downloads found.")
		return
	}

	for _, r := range records {
		fmt.Printf("\nVideo: %s (%s)\n", r.Title, r.VideoID)
		fmt.Printf("Status: %s\n", r.Status)
		fmt.Printf("Started: %s\n", r.StartTime.Format("2006-01-02 15:04:05"))

		switch r.Status {
		case models.StatusCompleted:
			fmt.Printf("File: %s (%s)\n", r.Path, storageService.FormatFileSize(r.Size))
		case models.StatusFailed:
			if r.Error != nil {
				fmt.Printf("Error: %s\n", *r.Error)
			}
		}
	}
}

func listFiles() {
	fmt.Println("\n=== MP3 Files ===")

	root := storageService.DownloadDir
	found := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && d.IsDir() && !strings.HasPrefix(d.Name(), services.BatchFolderPrefix) {
			return filepath.SkipDir
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), services.MP3Extension) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		found++
		fmt.Printf("  %d. %s (%s)\n", found, rel, storageService.FormatFileSize(info.Size()))
		return nil
	})
	if err != nil {
		fmt.Printf("Error reading download directory: %v\n", err)
		return
	}

	if found == 0 {
		fmt.Println("No files found.")
	}
}

// withSpinner runs fn while drawing a progress spinner on the current line.
func withSpinner(label string, fn func() error) error {
	done := make(chan bool)
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		i := 0
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fmt.Printf("\r%s %s", spinner[i%len(spinner)], label)
				i++
			}
		}
	}()

	err := fn()
	done <- true
	fmt.Print("\r")
	return err
}
