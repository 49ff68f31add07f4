package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resume-ats/internal/models"
)

type JobRepository interface {
	Create(job *models.JobRequirement) error
	FindByID(id uint) (*models.JobRequirement, error)
	List() ([]models.JobRequirement, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(job *models.JobRequirement) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job requirement: %w", err)
	}
	return nil
}

func (r *jobRepository) FindByID(id uint) (*models.JobRequirement, error) {
	var job models.JobRequirement
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job requirement %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find job requirement: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) List() ([]models.JobRequirement, error) {
	var jobs []models.JobRequirement
	if err := r.db.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list job requirements: %w", err)
	}
	return jobs, nil
}
