package handlers

import (
	"net/http"

	"github.com/vicradon/yt-playlist-mp3/services"
)

type Dependencies struct {
	Playlists   *services.PlaylistService
	Conversions *services.ConversionService
	Batches     *services.BatchService
	Storage     *services.StorageService
	History     HistoryReader
}

// NewRouter registers the API routes and wraps them with CORS handling.
func NewRouter(deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /api/playlist/{playlistId...}", NewPlaylistHandler(deps.Playlists))
	mux.Handle("POST /api/download", NewDownloadHandler(deps.Conversions))
	mux.Handle("POST /api/download-all", NewDownloadAllHandler(deps.Batches))
	mux.Handle("GET /api/downloads", NewHistoryHandler(deps.History))
	mux.Handle("GET /api/file/{name...}", NewFileHandler(deps.Storage))

	return WithCORS(mux)
}
