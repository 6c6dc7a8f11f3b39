package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CopyFileWithTimestamp copies a file into the upload directory under a
// timestamped name and returns the destination path.
func CopyFileWithTimestamp(sourcePath, uploadDir string) (string, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	originalName := filepath.Base(sourcePath)
	ext := filepath.Ext(originalName)
	baseFileName := strings.TrimSuffix(originalName, ext)
	destFileName := fmt.Sprintf("%s_%d%s", baseFileName, time.Now().Unix(), ext)
	destPath := filepath.Join(uploadDir, destFileName)

	destFile, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}

	return destPath, nil
}
