package database

import (
	"errors"

	"github.com/vicradon/yt-playlist-mp3/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultListLimit = 50

var DB *gorm.DB

var ErrDisabled = errors.New("download history is disabled")

func Init(dsn string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	return DB.AutoMigrate(&models.DownloadRecord{})
}

func Enabled() bool {
	return DB != nil
}

func SaveDownload(record *models.DownloadRecord) error {
	if DB == nil {
		return ErrDisabled
	}
	return DB.Save(record).Error
}

// ListDownloads returns the most recent records first.
func ListDownloads(limit int) ([]models.DownloadRecord, error) {
	if DB == nil {
		return nil, ErrDisabled
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var records []models.DownloadRecord
	result := DB.Order("start_time desc").Limit(limit).Find(&records)
	return records, result.Error
}

// Recorder adapts the package-level DB to the services history interface.
type Recorder struct{}

func (Recorder) SaveDownload(record *models.DownloadRecord) error {
	return SaveDownload(record)
}

func (Recorder) ListDownloads(limit int) ([]models.DownloadRecord, error) {
	return ListDownloads(limit)
}
