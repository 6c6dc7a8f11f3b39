package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileService stores uploaded files in the upload directory under
// collision-free, sanitized names.
type FileService struct {
	uploadDir string
}

func NewFileService(uploadDir string) (*FileService, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileService{uploadDir: uploadDir}, nil
}

// SaveUpload writes the uploaded file to disk as
// <original name>_<unix timestamp><ext> and returns the stored path.
func (s *FileService) SaveUpload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	baseName := strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename))
	filename := sanitizeFilename(fmt.Sprintf("%s_%d%s", baseName, time.Now().Unix(), ext))
	destPath := filepath.Join(s.uploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return destPath, nil
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
}
