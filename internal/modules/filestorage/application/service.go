package application

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/captainhq/captain-backend/internal/modules/filestorage/domain"
)

// FileService provides high-level upload operations for resumes and
// avatars.
type FileService struct {
	storage domain.BlobStorage
}

func NewFileService(storage domain.BlobStorage) *FileService {
	return &FileService{storage: storage}
}

// Upload stores a file under a generated key inside folder and returns
// the public URL and the key.
func (s *FileService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, string, error) {
	ext := filepath.Ext(header.Filename)
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)

	url, err := s.storage.Put(ctx, key, file, header.Header.Get("Content-Type"))
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

// DownloadURL builds a temporary download link for a stored file.
func (s *FileService) DownloadURL(ctx context.Context, key, filename string, expiration time.Duration) (string, error) {
	return s.storage.PresignDownload(ctx, key, filename, expiration)
}

// Delete removes a stored file by its public URL.
func (s *FileService) Delete(ctx context.Context, url string) error {
	key, err := s.storage.KeyFromURL(url)
	if err != nil {
		return err
	}
	return s.storage.Remove(ctx, key)
}

// Storage exposes the raw backend for callers that manage keys
// themselves (avatar resizing writes a processed buffer).
func (s *FileService) Storage() domain.BlobStorage {
	return s.storage
}
