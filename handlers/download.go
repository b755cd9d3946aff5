package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/vicradon/yt-playlist-mp3/models"
	"github.com/vicradon/yt-playlist-mp3/services"
)

type downloadResponse struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
	Path     string `json:"path"`
}

type DownloadHandler struct {
	conversionService *services.ConversionService
}

func NewDownloadHandler(conversionService *services.ConversionService) *DownloadHandler {
	return &DownloadHandler{
		conversionService: conversionService,
	}
}

func (h *DownloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req models.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.VideoID == "" {
		writeServiceError(w, services.ErrInvalidVideoID)
		return
	}

	res, err := h.conversionService.DownloadOne(r.Context(), req)
	if err != nil {
		log.Printf("Download error for %s: %v", req.VideoID, err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, downloadResponse{
		Success:  true,
		FileName: res.FileName,
		Path:     res.Path,
	})
}
