package models

import "time"

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type DownloadRequest struct {
	VideoID string `json:"videoId"`
	Title   string `json:"title"`
}

type BatchRequest struct {
	Videos []DownloadRequest `json:"videos"`
}

// DownloadResult is the outcome of one pipeline run inside a batch.
type DownloadResult struct {
	VideoID  string `json:"videoId"`
	Success  bool   `json:"success"`
	FileName string `json:"fileName,omitempty"`
	Error    string `json:"error,omitempty"`
}

// DownloadRecord is a persisted history row for a single download attempt.
type DownloadRecord struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	BatchID   string     `gorm:"index" json:"batchId,omitempty"`
	VideoID   string     `gorm:"index" json:"videoId"`
	Title     string     `json:"title"`
	FileName  string     `json:"fileName,omitempty"`
	Path      string     `json:"path,omitempty"`
	Status    string     `json:"status"`
	Error     *string    `json:"error,omitempty"`
	Size      int64      `json:"size"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}
