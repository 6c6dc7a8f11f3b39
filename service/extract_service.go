package service

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"github.com/uxmentor/uxmentor-be/types"
)

// Extractor pulls plain text out of a document file.
type Extractor interface {
	ExtractText(filePath string) (string, error)
	SupportedExtension(ext string) bool
}

// ExtractService extracts text from PDF and DOCX files.
type ExtractService struct{}

func NewExtractService() *ExtractService {
	return &ExtractService{}
}

func (s *ExtractService) SupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".docx":
		return true
	}
	return false
}

// ExtractText reads the file at filePath and returns its plain text.
// Page boundaries are not preserved; the result is a single flat string.
func (s *ExtractService) ExtractText(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return s.extractPDF(filePath)
	case ".docx":
		return s.extractDOCX(filePath)
	default:
		return "", fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, ext)
	}
}

func (s *ExtractService) extractPDF(filePath string) (string, error) {
	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrExtractionFailed, err)
	}
	defer f.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrExtractionFailed, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrExtractionFailed, err)
	}
	return buf.String(), nil
}

func (s *ExtractService) extractDOCX(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrExtractionFailed, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrExtractionFailed, err)
	}
	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrExtractionFailed, err)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *docx.Paragraph, *docx.Table:
			fmt.Fprintln(&sb, item)
		}
	}
	return sb.String(), nil
}
