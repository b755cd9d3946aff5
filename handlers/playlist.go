package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/vicradon/yt-playlist-mp3/services"
)

type PlaylistHandler struct {
	playlistService *services.PlaylistService
}

func NewPlaylistHandler(playlistService *services.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{
		playlistService: playlistService,
	}
}

func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	input := r.PathValue("playlistId")
	// An unencoded playlist URL loses its query to the request itself.
	if strings.Contains(r.URL.RawQuery, "list=") {
		input += "?" + r.URL.RawQuery
	}

	playlist, err := h.playlistService.ResolvePlaylist(r.Context(), input)
	if err != nil {
		log.Printf("Playlist fetch error for %q: %v", input, err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}
