package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"resume-ats/internal/models"
)

type BatchRepository interface {
	CreateBatch(batch *models.ProcessingBatch) error
	FindByBatchID(batchID string) (*models.ProcessingBatch, error)
	ListRecent(limit int) ([]models.ProcessingBatch, error)
	MarkProcessing(batchID string) error
	MarkCompleted(batchID string) error
	MarkFailed(batchID string) error
	RecordFileResult(batchID string, success bool) error
	CreateLog(log *models.ProcessingLog) error
	SaveLog(log *models.ProcessingLog) error
	LogsForBatch(batchID string) ([]models.ProcessingLog, error)
}

type batchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) CreateBatch(batch *models.ProcessingBatch) error {
	if err := r.db.Create(batch).Error; err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	return nil
}

func (r *batchRepository) FindByBatchID(batchID string) (*models.ProcessingBatch, error) {
	var batch models.ProcessingBatch
	if err := r.db.Where("batch_id = ?", batchID).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("batch %s: %w", batchID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find batch: %w", err)
	}
	return &batch, nil
}

func (r *batchRepository) ListRecent(limit int) ([]models.ProcessingBatch, error) {
	if limit <= 0 {
		limit = 50
	}
	var batches []models.ProcessingBatch
	err := r.db.Order("created_at DESC").Limit(limit).Find(&batches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return batches, nil
}

// MarkProcessing transitions PENDING -> PROCESSING. The status guard keeps the
// transition monotonic: a batch already past PENDING is left untouched.
func (r *batchRepository) MarkProcessing(batchID string) error {
	result := r.db.Model(&models.ProcessingBatch{}).
		Where("batch_id = ? AND status = ?", batchID, models.BatchPending).
		Updates(map[string]any{
			"status":     models.BatchProcessing,
			"started_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark batch processing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("batch %s not in PENDING state: %w", batchID, ErrNotFound)
	}
	return nil
}

func (r *batchRepository) MarkCompleted(batchID string) error {
	return r.finish(batchID, models.BatchCompleted, []models.BatchStatus{models.BatchProcessing})
}

// MarkFailed also accepts PENDING so a batch that never started processing
// still reaches a terminal state.
func (r *batchRepository) MarkFailed(batchID string) error {
	return r.finish(batchID, models.BatchFailed, []models.BatchStatus{models.BatchPending, models.BatchProcessing})
}

func (r *batchRepository) finish(batchID string, status models.BatchStatus, from []models.BatchStatus) error {
	result := r.db.Model(&models.ProcessingBatch{}).
		Where("batch_id = ? AND status IN ?", batchID, from).
		Updates(map[string]any{
			"status":       status,
			"completed_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to finish batch: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("batch %s not in expected state: %w", batchID, ErrNotFound)
	}
	return nil
}

// RecordFileResult advances the progress counters in a single UPDATE so
// processed_files always equals successful_files + failed_files, no matter
// how many workers report concurrently.
func (r *batchRepository) RecordFileResult(batchID string, success bool) error {
	outcome := "failed_files"
	if success {
		outcome = "successful_files"
	}
	result := r.db.Model(&models.ProcessingBatch{}).
		Where("batch_id = ?", batchID).
		Updates(map[string]any{
			"processed_files": gorm.Expr("processed_files + 1"),
			outcome:           gorm.Expr(outcome + " + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to record file result: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("batch %s: %w", batchID, ErrNotFound)
	}
	return nil
}

func (r *batchRepository) CreateLog(log *models.ProcessingLog) error {
	if err := r.db.Create(log).Error; err != nil {
		return fmt.Errorf("failed to create processing log: %w", err)
	}
	return nil
}

func (r *batchRepository) SaveLog(log *models.ProcessingLog) error {
	if err := r.db.Save(log).Error; err != nil {
		return fmt.Errorf("failed to save processing log: %w", err)
	}
	return nil
}

func (r *batchRepository) LogsForBatch(batchID string) ([]models.ProcessingLog, error) {
	var logs []models.ProcessingLog
	err := r.db.Where("batch_id = ?", batchID).Order("id ASC").Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load batch logs: %w", err)
	}
	return logs, nil
}
