package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"resume-ats/internal/models"
)

// StructuredResume is the structuring engine's output for one resume.
// Confidence reflects how many of the important fields came back filled.
type StructuredResume struct {
	Data       models.ResumeData
	Confidence float64
	Latency    time.Duration
}

// StructuringEngine converts extracted plain text into a structured candidate
// record. A call either succeeds once or fails once; retry policy, if any,
// belongs to the caller.
type StructuringEngine interface {
	Extract(ctx context.Context, text string) (*StructuredResume, error)
}

type llmStructurer struct {
	gemini  GeminiService
	prompts *PromptBuilder
	timeout time.Duration
}

func NewLLMStructurer(gemini GeminiService, timeout time.Duration) StructuringEngine {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &llmStructurer{
		gemini:  gemini,
		prompts: NewPromptBuilder(),
		timeout: timeout,
	}
}

// Extract implements StructuringEngine.
func (s *llmStructurer) Extract(ctx context.Context, text string) (*StructuredResume, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := s.prompts.BuildResumeExtractionPrompt(text)
	response, err := s.gemini.GenerateText(ctx, prompt, 0.1)
	if err != nil {
		return nil, fmt.Errorf("structuring request failed: %w", err)
	}

	data := s.parseResponse(response)
	return &StructuredResume{
		Data:       data,
		Confidence: calculateConfidence(data),
		Latency:    time.Since(start),
	}, nil
}

func (s *llmStructurer) parseResponse(response string) models.ResumeData {
	jsonStr := extractJSON(response)

	var data models.ResumeData
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		log.Printf("⚠️  Failed to parse structuring response, using regex fallback: %v\n", err)
		return fallbackExtraction(response)
	}
	return data
}

// extractJSON strips markdown fencing and trims the response down to the
// outermost JSON object.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}
	return text
}

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?1?[-.\s]?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)
)

// fallbackExtraction salvages email and phone from an unparseable response.
// Everything else stays empty; the candidate still gets persisted so a human
// can review the stored text.
func fallbackExtraction(text string) models.ResumeData {
	var data models.ResumeData
	if email := emailPattern.FindString(text); email != "" {
		data.PersonalInfo.Email = email
	}
	if phone := phonePattern.FindString(text); phone != "" {
		data.PersonalInfo.Phone = phone
	}
	return data
}

// calculateConfidence scores how complete the extraction is: the three
// important personal fields count individually, each non-empty section
// counts once.
func calculateConfidence(data models.ResumeData) float64 {
	total := 3
	filled := 0

	if data.PersonalInfo.FullName != "" {
		filled++
	}
	if data.PersonalInfo.Email != "" {
		filled++
	}
	if data.PersonalInfo.Phone != "" {
		filled++
	}

	for _, present := range []bool{
		len(data.Education) > 0,
		len(data.Experience) > 0,
		len(data.Skills) > 0,
	} {
		if present {
			total++
			filled++
		}
	}

	confidence := float64(filled) / float64(total)
	return float64(int(confidence*100+0.5)) / 100
}
