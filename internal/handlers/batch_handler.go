package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"resume-ats/internal/repositories"
)

type BatchHandler struct {
	batches repositories.BatchRepository
}

func NewBatchHandler(batches repositories.BatchRepository) *BatchHandler {
	return &BatchHandler{batches: batches}
}

func (h *BatchHandler) HandleList(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	batches, err := h.batches.ListRecent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list batches",
		})
	}

	return c.JSON(fiber.Map{"batches": batches})
}

// HandleGet returns one batch's counters plus its per-file logs, which is
// what the frontend polls while a batch runs.
func (h *BatchHandler) HandleGet(c *fiber.Ctx) error {
	batchID := c.Params("batch_id")

	batch, err := h.batches.FindByBatchID(batchID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "batch not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load batch",
		})
	}

	logs, err := h.batches.LogsForBatch(batchID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load batch logs",
		})
	}

	return c.JSON(fiber.Map{
		"batch": batch,
		"files": logs,
	})
}
