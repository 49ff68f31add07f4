package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resume-ats/internal/models"
)

type CandidateFilter struct {
	Search          string
	Status          string
	ExperienceLevel string
	MinScore        *float64
	Offset          int
	Limit           int
}

type CandidateRepository interface {
	FindByID(id uint) (*models.Candidate, error)
	FindByIDs(ids []uint) ([]models.Candidate, error)
	List(filter CandidateFilter) ([]models.Candidate, error)
	AllForMatching() ([]models.Candidate, error)
	ReplaceFromResume(candidate *models.Candidate, text *models.ExtractedText) error
	UpdateStatus(id uint, status models.CandidateStatus) error
	Delete(id uint) error
	Stats() (*models.DashboardStats, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) FindByID(id uint) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.
		Preload("Education").
		Preload("Experience").
		Preload("Skills").
		Preload("Projects").
		Preload("Certifications").
		Where("id = ?", id).
		First(&candidate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("candidate %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &candidate, nil
}

func (r *candidateRepository) FindByIDs(ids []uint) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := r.db.Where("id IN ?", ids).Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) List(filter CandidateFilter) ([]models.Candidate, error) {
	query := r.db.Model(&models.Candidate{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"full_name ILIKE ? OR email ILIKE ? OR classification ILIKE ?",
			like, like, like,
		)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ExperienceLevel != "" {
		query = query.Where("experience_level = ?", filter.ExperienceLevel)
	}
	if filter.MinScore != nil {
		query = query.Where("overall_score >= ?", *filter.MinScore)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var candidates []models.Candidate
	err := query.Order("created_at DESC").Offset(filter.Offset).Limit(limit).Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) AllForMatching() ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := r.db.
		Preload("Skills").
		Preload("Experience").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates for matching: %w", err)
	}
	return candidates, nil
}

// ReplaceFromResume upserts the candidate by email. For an existing email
// every child collection is deleted and reinserted and the extracted text row
// is appended; the review status and any personal field the new extraction
// left empty are carried over from the existing row. The whole operation runs
// in one transaction so a failed reinsert leaves the previous state.
func (r *candidateRepository) ReplaceFromResume(candidate *models.Candidate, text *models.ExtractedText) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if candidate.Email != nil && *candidate.Email != "" {
			var existing models.Candidate
			err := tx.Where("email = ?", *candidate.Email).First(&existing).Error
			switch {
			case err == nil:
				candidate.ID = existing.ID
				candidate.CreatedAt = existing.CreatedAt
				// Review state belongs to humans; re-ingestion never
				// resets it. Personal fields only improve: an extraction
				// that came back empty keeps the previous values.
				candidate.Status = existing.Status
				if candidate.FullName == "" {
					candidate.FullName = existing.FullName
				}
				if candidate.Phone == "" {
					candidate.Phone = existing.Phone
				}
				if candidate.Address == "" {
					candidate.Address = existing.Address
				}
				for _, child := range []any{
					&models.Education{},
					&models.Experience{},
					&models.Skill{},
					&models.Project{},
					&models.Certification{},
				} {
					if err := tx.Where("candidate_id = ?", existing.ID).Delete(child).Error; err != nil {
						return fmt.Errorf("failed to clear child records: %w", err)
					}
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				// fresh candidate
			default:
				return fmt.Errorf("failed to look up candidate by email: %w", err)
			}
		}

		if err := tx.Save(candidate).Error; err != nil {
			return fmt.Errorf("failed to save candidate: %w", err)
		}

		text.CandidateID = candidate.ID
		if err := tx.Create(text).Error; err != nil {
			return fmt.Errorf("failed to save extracted text: %w", err)
		}
		return nil
	})
}

func (r *candidateRepository) UpdateStatus(id uint, status models.CandidateStatus) error {
	result := r.db.Model(&models.Candidate{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update candidate status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *candidateRepository) Delete(id uint) error {
	result := r.db.Select(
		"Education", "Experience", "Skills", "Projects", "Certifications", "ExtractedTexts",
	).Delete(&models.Candidate{ID: id})
	if result.Error != nil {
		return fmt.Errorf("failed to delete candidate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *candidateRepository) Stats() (*models.DashboardStats, error) {
	stats := &models.DashboardStats{
		CandidatesByStatus:     map[string]int64{},
		CandidatesByExperience: map[string]int64{},
	}

	if err := r.db.Model(&models.Candidate{}).Count(&stats.TotalCandidates).Error; err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}

	type group struct {
		Key   string
		Count int64
	}

	var byStatus []group
	err := r.db.Model(&models.Candidate{}).
		Select("status AS key, COUNT(id) AS count").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group candidates by status: %w", err)
	}
	for _, g := range byStatus {
		stats.CandidatesByStatus[g.Key] = g.Count
	}

	var byLevel []group
	err = r.db.Model(&models.Candidate{}).
		Select("experience_level AS key, COUNT(id) AS count").
		Group("experience_level").
		Scan(&byLevel).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group candidates by level: %w", err)
	}
	for _, g := range byLevel {
		stats.CandidatesByExperience[g.Key] = g.Count
	}

	var avg *float64
	err = r.db.Model(&models.Candidate{}).
		Select("AVG(overall_score)").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute average score: %w", err)
	}
	if avg != nil {
		stats.AverageScore = *avg
	}

	var topSkills []models.SkillCount
	err = r.db.Model(&models.Skill{}).
		Select("skill_name AS skill, COUNT(id) AS count").
		Group("skill_name").
		Order("count DESC").
		Limit(10).
		Scan(&topSkills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute top skills: %w", err)
	}
	stats.TopSkills = topSkills

	return stats, nil
}
