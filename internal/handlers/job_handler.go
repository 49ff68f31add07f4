package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"resume-ats/internal/models"
	"resume-ats/internal/repositories"
	"resume-ats/internal/services"
)

type JobHandler struct {
	jobs     repositories.JobRepository
	matcher  services.MatcherService
	validate *validator.Validate
}

func NewJobHandler(jobs repositories.JobRepository, matcher services.MatcherService) *JobHandler {
	return &JobHandler{
		jobs:     jobs,
		matcher:  matcher,
		validate: validator.New(),
	}
}

func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.JobRequirementCreate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	job := &models.JobRequirement{
		JobTitle:              req.JobTitle,
		RequiredSkills:        datatypes.NewJSONSlice(req.RequiredSkills),
		PreferredSkills:       datatypes.NewJSONSlice(req.PreferredSkills),
		MinExperienceYears:    req.MinExperienceYears,
		EducationRequirements: datatypes.JSONMap(req.EducationRequirements),
	}
	if err := h.jobs.Create(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create job requirement",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	jobs, err := h.jobs.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list job requirements",
		})
	}
	return c.JSON(fiber.Map{"jobs": jobs})
}

// HandleMatch ranks every candidate against the job and returns the ordered
// shortlist.
func (h *JobHandler) HandleMatch(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job id",
		})
	}

	matches, err := h.matcher.MatchCandidates(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "job requirement not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to match candidates",
		})
	}

	return c.JSON(fiber.Map{
		"job_id":  id,
		"matches": matches,
		"count":   len(matches),
	})
}
