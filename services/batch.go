package services

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/vicradon/yt-playlist-mp3/models"
)

type BatchResult struct {
	ID      string
	Folder  string
	Results []models.DownloadResult
}

// BatchService runs the conversion pipeline over a list of videos, one at a time.
type BatchService struct {
	conversion *ConversionService
	storage    *StorageService
}

func NewBatchService(conversion *ConversionService, storage *StorageService) *BatchService {
	return &BatchService{
		conversion: conversion,
		storage:    storage,
	}
}

// DownloadAll converts every video in order into a fresh batch folder. A
// failing video is recorded in its result and does not stop the batch.
func (b *BatchService) DownloadAll(ctx context.Context, videos []models.DownloadRequest) (*BatchResult, error) {
	if len(videos) == 0 {
		return nil, ErrEmptyBatch
	}

	folder, err := b.storage.CreateBatchFolder()
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{
		ID:      uuid.NewString(),
		Folder:  folder,
		Results: make([]models.DownloadResult, 0, len(videos)),
	}
	log.Printf("Batch %s: downloading %d videos into %s", batch.ID, len(videos), folder)

	issued := make(map[string]struct{}, len(videos))
	for i, video := range videos {
		token, fileName := uniqueBatchName(video.Title, issued)

		res, err := b.conversion.Convert(ctx, ConversionJob{
			VideoID:  video.VideoID,
			Title:    video.Title,
			DestDir:  folder,
			Token:    token,
			FileName: fileName,
			BatchID:  batch.ID,
		})
		if err != nil {
			log.Printf("Batch %s: video %d/%d (%s) failed: %v", batch.ID, i+1, len(videos), video.VideoID, err)
			batch.Results = append(batch.Results, models.DownloadResult{
				VideoID: video.VideoID,
				Success: false,
				Error:   UserMessage(err),
			})
			continue
		}

		batch.Results = append(batch.Results, models.DownloadResult{
			VideoID:  video.VideoID,
			Success:  true,
			FileName: res.FileName,
		})
	}

	return batch, nil
}

// uniqueBatchName draws tokens until the file name has not been issued in
// this batch yet.
func uniqueBatchName(title string, issued map[string]struct{}) (string, string) {
	for {
		token := UniqueToken(true)
		name := BuildFileName(title, token)
		if _, dup := issued[name]; dup {
			continue
		}
		issued[name] = struct{}{}
		return token, name
	}
}
