package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/vicradon/yt-playlist-mp3/services"
)

type FileHandler struct {
	storageService *services.StorageService
}

func NewFileHandler(storageService *services.StorageService) *FileHandler {
	return &FileHandler{
		storageService: storageService,
	}
}

func (h *FileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("name")
	if filename == "" {
		writeError(w, http.StatusBadRequest, "filename required")
		return
	}

	filePath, err := h.storageService.ValidateFilePath(filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "file not found")
		} else {
			writeError(w, http.StatusInternalServerError, "error accessing file")
		}
		return
	}
	if info.IsDir() {
		writeError(w, http.StatusBadRequest, "not a file")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(filePath)))
	w.Header().Set("Content-Type", "audio/mpeg")

	http.ServeFile(w, r, filePath)
}
