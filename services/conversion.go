package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vicradon/yt-playlist-mp3/models"
)

const TempFilePrefix = "temp_"

// Encoder transcodes an input stream into an MP3 file at outputFile.
type Encoder interface {
	Encode(ctx context.Context, input io.Reader, outputFile string) error
}

// Recorder persists download attempts. A nil Recorder disables history.
type Recorder interface {
	SaveDownload(record *models.DownloadRecord) error
}

// ConversionJob describes one pipeline run.
type ConversionJob struct {
	VideoID  string
	Title    string
	DestDir  string
	Token    string
	FileName string
	BatchID  string
}

type ConversionResult struct {
	VideoID  string
	FileName string
	Path     string
	Size     int64
}

type ConversionService struct {
	source      AudioSource
	encoder     Encoder
	storage     *StorageService
	recorder    Recorder
	tempDir     string
	gracePeriod time.Duration
}

func NewConversionService(source AudioSource, encoder Encoder, storage *StorageService, tempDir string, gracePeriod time.Duration) *ConversionService {
	return &ConversionService{
		source:      source,
		encoder:     encoder,
		storage:     storage,
		tempDir:     tempDir,
		gracePeriod: gracePeriod,
	}
}

func (s *ConversionService) SetRecorder(r Recorder) {
	s.recorder = r
}

// DownloadOne converts a single video into the storage download directory.
func (s *ConversionService) DownloadOne(ctx context.Context, req models.DownloadRequest) (*ConversionResult, error) {
	token := UniqueToken(false)
	return s.Convert(ctx, ConversionJob{
		VideoID:  req.VideoID,
		Title:    req.Title,
		DestDir:  s.storage.DownloadDir,
		Token:    token,
		FileName: BuildFileName(req.Title, token),
	})
}

// Convert validates the id, streams the audio through the encoder into a temp
// file and moves the result into job.DestDir.
func (s *ConversionService) Convert(ctx context.Context, job ConversionJob) (result *ConversionResult, err error) {
	record := &models.DownloadRecord{
		ID:        uuid.NewString(),
		BatchID:   job.BatchID,
		VideoID:   job.VideoID,
		Title:     job.Title,
		FileName:  job.FileName,
		StartTime: time.Now(),
	}
	defer func() {
		s.record(record, result, err)
	}()

	videoID, err := s.source.ValidateID(job.VideoID)
	if err != nil {
		return nil, err
	}

	stream, err := s.source.OpenAudio(ctx, videoID)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	// Single-mode tokens are only millisecond stamps, so concurrent jobs need their own temp name.
	tempPath := filepath.Join(s.tempDir, TempFilePrefix+job.Token+"_"+uuid.NewString()+MP3Extension)

	log.Printf("Video %s: transcoding to %s", videoID, tempPath)
	if err := s.encoder.Encode(ctx, stream, tempPath); err != nil {
		removeIfExists(tempPath)
		return nil, fmt.Errorf("%w: %s: %w", ErrTranscode, videoID, err)
	}

	// ffmpeg may still hold the output handle for a moment after exiting.
	if err := s.wait(ctx); err != nil {
		removeIfExists(tempPath)
		return nil, fmt.Errorf("%w: %w", ErrRelocate, err)
	}

	if !s.storage.FileExists(tempPath) {
		return nil, fmt.Errorf("%w: %s", ErrTempFileMissing, tempPath)
	}

	finalPath := filepath.Join(job.DestDir, job.FileName)
	if err := s.storage.MoveFile(tempPath, finalPath); err != nil {
		removeIfExists(tempPath)
		return nil, fmt.Errorf("%w: %w", ErrRelocate, err)
	}

	log.Printf("Video %s: saved %s", videoID, finalPath)

	return &ConversionResult{
		VideoID:  videoID,
		FileName: job.FileName,
		Path:     finalPath,
		Size:     s.storage.FileSize(finalPath),
	}, nil
}

func (s *ConversionService) wait(ctx context.Context) error {
	if s.gracePeriod <= 0 {
		return nil
	}
	timer := time.NewTimer(s.gracePeriod)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ConversionService) record(record *models.DownloadRecord, result *ConversionResult, err error) {
	if s.recorder == nil {
		return
	}

	endTime := time.Now()
	record.EndTime = &endTime
	if err != nil {
		msg := err.Error()
		record.Status = models.StatusFailed
		record.Error = &msg
	} else {
		record.Status = models.StatusCompleted
		record.Path = result.Path
		record.Size = result.Size
	}

	if saveErr := s.recorder.SaveDownload(record); saveErr != nil {
		log.Printf("Failed to save download %s to history: %v", record.ID, saveErr)
	}
}

func removeIfExists(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to remove temp file %s: %v", path, err)
	}
}
