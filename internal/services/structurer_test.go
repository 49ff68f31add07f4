package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ats/internal/models"
)

type cannedGemini struct {
	response string
	err      error
}

func (c *cannedGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	return c.response, c.err
}

func (c *cannedGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, nil
}

func (c *cannedGemini) TranscribeImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	return "", nil
}

func TestStructurerExtract_ParsesFencedJSON(t *testing.T) {
	gemini := &cannedGemini{response: "Here is the result:\n```json\n" + `{
		"personal_info": {"full_name": "Jane Doe", "email": "jane@example.com", "phone": "555-123-4567"},
		"skills": [{"skill_name": "Go", "category": "Technical", "proficiency_level": "EXPERT"}]
	}` + "\n```"}
	structurer := NewLLMStructurer(gemini, time.Minute)

	result, err := structurer.Extract(context.Background(), "some resume text")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", result.Data.PersonalInfo.FullName)
	assert.Equal(t, "jane@example.com", result.Data.PersonalInfo.Email)
	require.Len(t, result.Data.Skills, 1)
	assert.Equal(t, "Go", result.Data.Skills[0].SkillName)
}

func TestStructurerExtract_FallbackOnUnparseableResponse(t *testing.T) {
	gemini := &cannedGemini{response: "I could not produce JSON, but the candidate is reachable at jane@example.com or 555-123-4567."}
	structurer := NewLLMStructurer(gemini, time.Minute)

	result, err := structurer.Extract(context.Background(), "some resume text")
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", result.Data.PersonalInfo.Email)
	assert.NotEmpty(t, result.Data.PersonalInfo.Phone)
	assert.Empty(t, result.Data.PersonalInfo.FullName)
}

func TestStructurerExtract_PropagatesModelError(t *testing.T) {
	gemini := &cannedGemini{err: assert.AnError}
	structurer := NewLLMStructurer(gemini, time.Minute)

	_, err := structurer.Extract(context.Background(), "some resume text")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestExtractJSON(t *testing.T) {
	t.Run("strips fencing", func(t *testing.T) {
		assert.Equal(t, `{"a": 1}`, extractJSON("```json\n{\"a\": 1}\n```"))
	})

	t.Run("trims surrounding prose", func(t *testing.T) {
		assert.Equal(t, `{"a": 1}`, extractJSON(`Sure! {"a": 1} Hope that helps.`))
	})

	t.Run("no braces passes through", func(t *testing.T) {
		assert.Equal(t, "no json here", extractJSON("no json here"))
	})
}

func TestCalculateConfidence(t *testing.T) {
	t.Run("empty extraction", func(t *testing.T) {
		assert.Equal(t, 0.0, calculateConfidence(models.ResumeData{}))
	})

	t.Run("personal info only", func(t *testing.T) {
		data := models.ResumeData{}
		data.PersonalInfo.FullName = "Jane Doe"
		data.PersonalInfo.Email = "jane@example.com"
		data.PersonalInfo.Phone = "555-123-4567"
		assert.InDelta(t, 1.0, calculateConfidence(data), 0.001)
	})

	t.Run("sections count toward the total", func(t *testing.T) {
		data := models.ResumeData{
			Skills: []models.SkillEntry{{SkillName: "Go"}},
		}
		data.PersonalInfo.FullName = "Jane Doe"
		// 2 filled of 4 counted fields
		assert.InDelta(t, 0.5, calculateConfidence(data), 0.001)
	})
}
