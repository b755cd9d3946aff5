package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/vicradon/yt-playlist-mp3/models"
	"github.com/vicradon/yt-playlist-mp3/services"
)

type batchResponse struct {
	Success bool                    `json:"success"`
	Folder  string                  `json:"folder"`
	Results []models.DownloadResult `json:"results"`
}

type DownloadAllHandler struct {
	batchService *services.BatchService
}

func NewDownloadAllHandler(batchService *services.BatchService) *DownloadAllHandler {
	return &DownloadAllHandler{
		batchService: batchService,
	}
}

func (h *DownloadAllHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req models.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	batch, err := h.batchService.DownloadAll(r.Context(), req.Videos)
	if err != nil {
		log.Printf("Batch download error: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, batchResponse{
		Success: true,
		Folder:  batch.Folder,
		Results: batch.Results,
	})
}
