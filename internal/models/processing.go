package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProcessingBatch tracks one submitted set of resume files. BatchID is the
// externally visible identifier and stays stable for polling; the numeric
// primary key never leaves the database layer.
type ProcessingBatch struct {
	ID              uint        `gorm:"primaryKey" json:"-"`
	BatchID         string      `gorm:"size:36;uniqueIndex;not null" json:"batch_id"`
	BatchName       string      `gorm:"size:255" json:"batch_name"`
	TotalFiles      int         `gorm:"default:0" json:"total_files"`
	ProcessedFiles  int         `gorm:"default:0" json:"processed_files"`
	SuccessfulFiles int         `gorm:"default:0" json:"successful_files"`
	FailedFiles     int         `gorm:"default:0" json:"failed_files"`
	Status          BatchStatus `gorm:"size:10;default:'PENDING';index" json:"status"`
	StartedAt       *time.Time  `json:"started_at"`
	CompletedAt     *time.Time  `json:"completed_at"`
	CreatedAt       time.Time   `json:"created_at"`
}

func (ProcessingBatch) TableName() string {
	return "processing_batches"
}

// ProcessingLog records the outcome of one file within a batch.
type ProcessingLog struct {
	ID                   uint             `gorm:"primaryKey" json:"id"`
	BatchID              string           `gorm:"size:36;not null;index" json:"batch_id"`
	CandidateID          *uint            `gorm:"index" json:"candidate_id"`
	Filename             string           `gorm:"size:255;not null;index" json:"filename"`
	FileSize             int64            `json:"file_size"`
	StorageKey           string           `gorm:"size:500" json:"storage_key"`
	Status               ProcessingStatus `gorm:"size:10;default:'PENDING';index" json:"status"`
	ExtractionConfidence *float64         `gorm:"type:decimal(3,2)" json:"extraction_confidence"`
	ErrorMessage         string           `gorm:"type:text" json:"error_message,omitempty"`
	ProcessingSeconds    *float64         `gorm:"type:decimal(10,3)" json:"processing_seconds"`
	LLMSeconds           *float64         `gorm:"type:decimal(10,3)" json:"llm_seconds"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

func (ProcessingLog) TableName() string {
	return "processing_logs"
}

// JobRequirement is immutable after creation; the matcher only reads it.
type JobRequirement struct {
	ID                    uint                        `gorm:"primaryKey" json:"id"`
	JobTitle              string                      `gorm:"size:255;not null;index" json:"job_title"`
	RequiredSkills        datatypes.JSONSlice[string] `json:"required_skills"`
	PreferredSkills       datatypes.JSONSlice[string] `json:"preferred_skills"`
	MinExperienceYears    int                         `gorm:"default:0" json:"min_experience_years"`
	EducationRequirements datatypes.JSONMap           `json:"education_requirements"`
	CreatedAt             time.Time                   `json:"created_at"`
}

func (JobRequirement) TableName() string {
	return "job_requirements"
}
