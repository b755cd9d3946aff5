package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/vicradon/yt-playlist-mp3/models"
)

// HistoryReader lists persisted downloads, newest first.
type HistoryReader interface {
	ListDownloads(limit int) ([]models.DownloadRecord, error)
}

type HistoryHandler struct {
	history HistoryReader
}

// NewHistoryHandler accepts a nil reader when history is disabled.
func NewHistoryHandler(history HistoryReader) *HistoryHandler {
	return &HistoryHandler{
		history: history,
	}
}

func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, "download history is disabled")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := h.history.ListDownloads(limit)
	if err != nil {
		log.Printf("Error loading download history: %v", err)
		writeError(w, http.StatusInternalServerError, "could not load download history")
		return
	}
	if records == nil {
		records = []models.DownloadRecord{}
	}

	writeJSON(w, http.StatusOK, records)
}
