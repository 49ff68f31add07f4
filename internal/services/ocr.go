package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// OCRService recognizes text in a resume image. The returned method tag names
// the backend that actually produced the text.
type OCRService interface {
	Recognize(ctx context.Context, image []byte, mimeType string) (text, method string, err error)
}

// twoTierOCR tries the Gemini vision model first and falls back to local
// Tesseract when the cloud call fails or comes back empty.
type twoTierOCR struct {
	gemini GeminiService
}

func NewTwoTierOCR(gemini GeminiService) OCRService {
	return &twoTierOCR{gemini: gemini}
}

// Recognize implements OCRService.
func (o *twoTierOCR) Recognize(ctx context.Context, image []byte, mimeType string) (string, string, error) {
	if o.gemini != nil {
		text, err := o.gemini.TranscribeImage(ctx, image, mimeType)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), MethodGeminiOCR, nil
		}
		if err != nil {
			logExtractorWarning("gemini OCR failed, falling back to tesseract", err)
		}
	}

	text, err := o.recognizeLocal(image)
	if err != nil {
		return "", "", fmt.Errorf("tesseract extraction failed: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", "", fmt.Errorf("no text recognized in image")
	}
	return strings.TrimSpace(text), MethodTesseractOCR, nil
}

func (o *twoTierOCR) recognizeLocal(image []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}
	return client.Text()
}
