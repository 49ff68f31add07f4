package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"resume-ats/internal/models"
	"resume-ats/internal/repositories"
	"resume-ats/internal/services"
)

type CandidateHandler struct {
	candidates repositories.CandidateRepository
	store      services.ObjectStore
	index      services.ResumeIndex // nil when semantic search is disabled
}

func NewCandidateHandler(
	candidates repositories.CandidateRepository,
	store services.ObjectStore,
	index services.ResumeIndex,
) *CandidateHandler {
	return &CandidateHandler{
		candidates: candidates,
		store:      store,
		index:      index,
	}
}

func (h *CandidateHandler) HandleList(c *fiber.Ctx) error {
	filter := repositories.CandidateFilter{
		Search:          c.Query("search"),
		Status:          c.Query("status"),
		ExperienceLevel: c.Query("experience_level"),
	}
	if raw := c.Query("min_score"); raw != "" {
		minScore, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "min_score must be a number",
			})
		}
		filter.MinScore = &minScore
	}
	filter.Offset, _ = strconv.Atoi(c.Query("offset", "0"))
	filter.Limit, _ = strconv.Atoi(c.Query("limit", "100"))

	candidates, err := h.candidates.List(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list candidates",
		})
	}

	return c.JSON(fiber.Map{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

func (h *CandidateHandler) HandleGet(c *fiber.Ctx) error {
	id, err := candidateID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid candidate id",
		})
	}

	candidate, err := h.candidates.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "candidate not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load candidate",
		})
	}

	return c.JSON(candidate)
}

// HandleResumeURL returns a short-lived link to the original uploaded file.
func (h *CandidateHandler) HandleResumeURL(c *fiber.Ctx) error {
	id, err := candidateID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid candidate id",
		})
	}

	candidate, err := h.candidates.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "candidate not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load candidate",
		})
	}
	if candidate.StorageKey == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "candidate has no stored resume",
		})
	}

	url, err := h.store.Presign(c.Context(), candidate.StorageKey, 15*time.Minute)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to generate resume link",
		})
	}

	return c.JSON(fiber.Map{"url": url})
}

func (h *CandidateHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	id, err := candidateID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid candidate id",
		})
	}

	var req models.CandidateStatusUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	status, ok := models.ParseCandidateStatus(req.Status)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid status. Allowed: NEW, REVIEWED, APPROVED, REJECTED",
		})
	}

	if err := h.candidates.UpdateStatus(id, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "candidate not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update status",
		})
	}

	return c.JSON(fiber.Map{
		"id":     id,
		"status": status,
	})
}

// HandleDelete removes the candidate row; the stored file and search index
// entries are cleaned up best-effort so a storage hiccup cannot block the
// delete.
func (h *CandidateHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := candidateID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid candidate id",
		})
	}

	candidate, err := h.candidates.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "candidate not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load candidate",
		})
	}

	if err := h.candidates.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete candidate",
		})
	}

	if candidate.StorageKey != "" {
		if err := h.store.Delete(c.Context(), candidate.StorageKey); err != nil {
			log.Printf("⚠️  Failed to delete stored resume %s: %v\n", candidate.StorageKey, err)
		}
	}
	if h.index != nil {
		if err := h.index.DeleteCandidate(c.Context(), id); err != nil {
			log.Printf("⚠️  Failed to remove candidate %d from search index: %v\n", id, err)
		}
	}

	return c.JSON(fiber.Map{"message": "candidate deleted"})
}

// HandleSearch runs a semantic query over indexed resume text and returns the
// matching candidates with their relevance scores.
func (h *CandidateHandler) HandleSearch(c *fiber.Ctx) error {
	if h.index == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "semantic search is not configured",
		})
	}

	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing query parameter 'q'",
		})
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	hits, err := h.index.Search(c.Context(), query, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "search failed",
		})
	}

	ids := make([]uint, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.CandidateID)
	}
	candidates, err := h.candidates.FindByIDs(ids)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load matched candidates",
		})
	}

	byID := make(map[uint]models.Candidate, len(candidates))
	for _, candidate := range candidates {
		byID[candidate.ID] = candidate
	}

	type result struct {
		Candidate models.Candidate `json:"candidate"`
		Score     float32          `json:"score"`
		Snippet   string           `json:"snippet"`
	}
	results := make([]result, 0, len(hits))
	for _, hit := range hits {
		candidate, ok := byID[hit.CandidateID]
		if !ok {
			continue // indexed but since deleted
		}
		results = append(results, result{
			Candidate: candidate,
			Score:     hit.Score,
			Snippet:   hit.Snippet,
		})
	}

	return c.JSON(fiber.Map{
		"query":   query,
		"results": results,
	})
}

func candidateID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
