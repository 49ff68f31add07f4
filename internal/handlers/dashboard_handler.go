package handlers

import (
	"github.com/gofiber/fiber/v2"

	"resume-ats/internal/repositories"
)

type DashboardHandler struct {
	candidates repositories.CandidateRepository
	batches    repositories.BatchRepository
}

func NewDashboardHandler(
	candidates repositories.CandidateRepository,
	batches repositories.BatchRepository,
) *DashboardHandler {
	return &DashboardHandler{
		candidates: candidates,
		batches:    batches,
	}
}

func (h *DashboardHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.candidates.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to compute dashboard stats",
		})
	}

	batches, err := h.batches.ListRecent(5)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load recent batches",
		})
	}
	stats.RecentBatches = batches

	return c.JSON(stats)
}
