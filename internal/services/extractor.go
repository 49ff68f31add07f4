package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat is returned for file types no backend can handle.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Extraction methods recorded on the extracted_text row.
const (
	MethodPDF          = "PDF"
	MethodDOCX         = "DOCX"
	MethodGeminiOCR    = "GEMINI_OCR"
	MethodTesseractOCR = "TESSERACT_OCR"
)

type Extraction struct {
	Text      string
	Method    string
	PageCount int
	WordCount int
}

// TextExtractor turns raw file bytes into plain text, selecting the backend
// by file extension.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte, filename, storageKey string) (*Extraction, error)
}

type fileExtractor struct {
	ocr OCRService
}

func NewTextExtractor(ocr OCRService) TextExtractor {
	return &fileExtractor{ocr: ocr}
}

// Extract implements TextExtractor.
func (e *fileExtractor) Extract(ctx context.Context, content []byte, filename, storageKey string) (*Extraction, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		return e.extractPDF(content)
	case ".docx":
		return e.extractDOCX(content)
	case ".jpg", ".jpeg", ".png", ".tiff":
		return e.extractImage(ctx, content, ext)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func (e *fileExtractor) extractPDF(content []byte) (*Extraction, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := strings.TrimSpace(textBuilder.String())
	if text == "" {
		return nil, fmt.Errorf("no text content found in PDF")
	}

	return &Extraction{
		Text:      text,
		Method:    MethodPDF,
		PageCount: totalPage,
		WordCount: len(strings.Fields(text)),
	}, nil
}

func (e *fileExtractor) extractDOCX(content []byte) (*Extraction, error) {
	doc, err := docx.Parse(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open DOCX: %w", err)
	}

	var textBuilder strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch o := item.(type) {
		case *docx.Paragraph, *docx.Table:
			textBuilder.WriteString(fmt.Sprint(o))
			textBuilder.WriteString("\n")
		}
	}

	text := strings.TrimSpace(textBuilder.String())
	if text == "" {
		return nil, fmt.Errorf("no text content found in DOCX")
	}

	return &Extraction{
		Text:      text,
		Method:    MethodDOCX,
		PageCount: 1,
		WordCount: len(strings.Fields(text)),
	}, nil
}

func (e *fileExtractor) extractImage(ctx context.Context, content []byte, ext string) (*Extraction, error) {
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "image/png"
	}

	text, method, err := e.ocr.Recognize(ctx, content, mimeType)
	if err != nil {
		return nil, fmt.Errorf("image extraction failed: %w", err)
	}

	return &Extraction{
		Text:      text,
		Method:    method,
		PageCount: 1,
		WordCount: len(strings.Fields(text)),
	}, nil
}

// CleanText collapses whitespace-only lines out of extracted text before it
// is handed to the structuring engine.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// logExtractorWarning exists so OCR fallbacks have one consistent log shape.
func logExtractorWarning(stage string, err error) {
	log.Printf("⚠️  %s: %v\n", stage, err)
}
