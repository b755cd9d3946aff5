package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const BatchFolderPrefix = "Playlist_"

// Swapped in tests to simulate cross-device moves and stuck sources.
var (
	renameFile = os.Rename
	removeFile = os.Remove
)

type StorageService struct {
	DownloadDir string
}

func NewStorageService(downloadDir string) *StorageService {
	return &StorageService{
		DownloadDir: downloadDir,
	}
}

// CreateBatchFolder creates a timestamped folder for one download-all run.
func (s *StorageService) CreateBatchFolder() (string, error) {
	folder := filepath.Join(s.DownloadDir, BatchFolderPrefix+strconv.FormatInt(now().UnixMilli(), 10))
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", fmt.Errorf("create batch folder: %w", err)
	}
	return folder, nil
}

// MoveFile renames src to dst, falling back to copy and delete when the
// rename fails, e.g. across filesystems.
func (s *StorageService) MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}

	if err := renameFile(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		os.Remove(dst)
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}

	if err := removeFile(src); err != nil {
		// Report failure only with no copy left at dst.
		os.Remove(dst)
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (s *StorageService) FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func (s *StorageService) FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	const k = 1024
	sizes := []string{"Bytes", "KB", "MB", "GB"}
	value := float64(bytes)
	i := 0
	for value >= k && i < len(sizes)-1 {
		value /= k
		i++
	}
	return fmt.Sprintf("%.1f %s", value, sizes[i])
}

// ValidateFilePath resolves filename inside DownloadDir and rejects anything
// that escapes it.
func (s *StorageService) ValidateFilePath(filename string) (string, error) {
	filename = filepath.Clean(filename)
	filePath := filepath.Join(s.DownloadDir, filename)

	absDownloadDir, err := filepath.Abs(s.DownloadDir)
	if err != nil {
		return "", fmt.Errorf("error processing directory path")
	}

	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("error processing file path")
	}

	absDirNormalized := strings.TrimSuffix(absDownloadDir, string(filepath.Separator)) + string(filepath.Separator)
	if !strings.HasPrefix(absFilePath, absDirNormalized) {
		return "", fmt.Errorf("invalid file path")
	}

	return filePath, nil
}

func (s *StorageService) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}
