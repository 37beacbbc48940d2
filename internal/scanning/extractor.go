package scanning

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// minEmbeddedTextLen is the threshold under which a PDF's embedded text
// layer is assumed to be missing (a scan), triggering the OCR fallback.
const minEmbeddedTextLen = 50

var receiptExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
	".bmp":  true,
	".gif":  true,
	".heic": true,
	".heif": true,
}

// IsImagePath reports whether path has a supported image extension
func IsImagePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return receiptExtensions[ext] && ext != ".pdf"
}

// IsReceiptPath reports whether path has a supported receipt extension
func IsReceiptPath(path string) bool {
	return receiptExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extractor extracts raw text from receipt files. PDFs yield their embedded
// text layer when present; scanned PDFs and images go through the OCR
// engine.
type Extractor struct {
	ocr OCREngine
}

// NewExtractor creates an Extractor backed by the given OCR engine
func NewExtractor(ocr OCREngine) *Extractor {
	return &Extractor{ocr: ocr}
}

// ExtractText extracts the text content of the file at path
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".pdf" {
		return e.extractPDF(ctx, data)
	}
	return e.extractImage(ctx, data)
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	text, err := pdfText(data)
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(text)) >= minEmbeddedTextLen {
		return text, nil
	}

	// no usable text layer, treat it as a scan
	pages, err := pdfPageImages(data)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, page := range pages {
		pageText, err := e.ocr.Recognize(ctx, page)
		if err != nil {
			return "", fmt.Errorf("ocr on page %d: %w", i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (e *Extractor) extractImage(ctx context.Context, data []byte) (string, error) {
	png, err := imageToPNG(data)
	if err != nil {
		return "", err
	}
	return e.ocr.Recognize(ctx, png)
}
