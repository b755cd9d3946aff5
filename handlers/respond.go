package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/vicradon/yt-playlist-mp3/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps a services error onto a status code and client message.
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if services.IsClientError(err) {
		status = http.StatusBadRequest
	}
	writeError(w, status, services.UserMessage(err))
}
