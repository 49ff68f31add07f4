package handlers

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"resume-ats/internal/models"
	"resume-ats/internal/services"
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
}

type UploadHandler struct {
	processor   services.ResumeProcessor
	maxFileSize int64
}

func NewUploadHandler(processor services.ResumeProcessor, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		processor:   processor,
		maxFileSize: maxFileSize,
	}
}

// HandleUpload accepts a multipart batch of resume files and queues it for
// processing. The response carries the batch id to poll for progress.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files uploaded. Please upload resumes under the 'files' field.",
		})
	}

	files := make([]services.ResumeFile, 0, len(headers))
	for _, header := range headers {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedExtensions[ext] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("unsupported file type %q for %s", ext, header.Filename),
			})
		}
		if header.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("%s too large. Max size: %d bytes", header.Filename, h.maxFileSize),
			})
		}

		f, err := header.Open()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to read %s: %v", header.Filename, err),
			})
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to read %s: %v", header.Filename, err),
			})
		}

		files = append(files, services.ResumeFile{
			Filename: header.Filename,
			Content:  content,
		})
	}

	batchName := c.FormValue("batch_name")

	batchID, err := h.processor.SubmitBatch(c.Context(), files, batchName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to create batch: %v", err),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(models.BatchSubmitResponse{
		BatchID:    batchID,
		BatchName:  batchName,
		TotalFiles: len(files),
		Status:     string(models.BatchPending),
	})
}
