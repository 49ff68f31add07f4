package models

import (
	"time"

	"gorm.io/datatypes"
)

type Candidate struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	FullName         string          `gorm:"size:255;not null" json:"full_name"`
	Email            *string         `gorm:"size:255;uniqueIndex" json:"email"`
	Phone            string          `gorm:"size:50" json:"phone"`
	Address          string          `gorm:"type:text" json:"address"`
	OverallScore     float64         `gorm:"type:decimal(5,2);default:0" json:"overall_score"`
	Classification   string          `gorm:"size:100;index" json:"classification"`
	ExperienceLevel  ExperienceLevel `gorm:"size:10;default:'ENTRY'" json:"experience_level"`
	Status           CandidateStatus `gorm:"size:10;default:'NEW';index" json:"status"`
	OriginalFilename string          `gorm:"size:255" json:"original_filename"`
	StorageKey       string          `gorm:"size:500" json:"storage_key"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Child collections are owned exclusively by the candidate and are
	// replaced wholesale when the same email is ingested again.
	Education      []Education     `gorm:"constraint:OnDelete:CASCADE" json:"education,omitempty"`
	Experience     []Experience    `gorm:"constraint:OnDelete:CASCADE" json:"experience,omitempty"`
	Skills         []Skill         `gorm:"constraint:OnDelete:CASCADE" json:"skills,omitempty"`
	Projects       []Project       `gorm:"constraint:OnDelete:CASCADE" json:"projects,omitempty"`
	Certifications []Certification `gorm:"constraint:OnDelete:CASCADE" json:"certifications,omitempty"`
	ExtractedTexts []ExtractedText `gorm:"constraint:OnDelete:CASCADE" json:"extracted_texts,omitempty"`
}

func (Candidate) TableName() string {
	return "candidates"
}

type Education struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CandidateID    uint           `gorm:"not null;index" json:"candidate_id"`
	Degree         string         `gorm:"size:255" json:"degree"`
	Institution    string         `gorm:"size:255" json:"institution"`
	GraduationYear *int           `gorm:"index" json:"graduation_year"`
	GPA            *float64       `gorm:"type:decimal(3,2)" json:"gpa"`
	Major          string         `gorm:"size:255" json:"major"`
	EducationLevel EducationLevel `gorm:"size:15" json:"education_level"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (Education) TableName() string {
	return "education"
}

type Experience struct {
	ID               uint                         `gorm:"primaryKey" json:"id"`
	CandidateID      uint                         `gorm:"not null;index" json:"candidate_id"`
	JobTitle         string                       `gorm:"size:255" json:"job_title"`
	Company          string                       `gorm:"size:255;index" json:"company"`
	StartDate        *time.Time                   `gorm:"type:date;index" json:"start_date"`
	EndDate          *time.Time                   `gorm:"type:date" json:"end_date"`
	IsCurrent        bool                         `gorm:"default:false" json:"is_current"`
	Responsibilities datatypes.JSONSlice[string]  `json:"responsibilities"`
	Achievements     datatypes.JSONSlice[string]  `json:"achievements"`
	CreatedAt        time.Time                    `json:"created_at"`
}

func (Experience) TableName() string {
	return "experience"
}

type Skill struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	CandidateID      uint             `gorm:"not null;index" json:"candidate_id"`
	SkillName        string           `gorm:"size:100;not null;index" json:"skill_name"`
	SkillCategory    SkillCategory    `gorm:"size:15;not null;index" json:"skill_category"`
	ProficiencyLevel ProficiencyLevel `gorm:"size:15;default:'INTERMEDIATE'" json:"proficiency_level"`
	YearsExperience  int              `gorm:"default:0" json:"years_experience"`
	CreatedAt        time.Time        `json:"created_at"`
}

func (Skill) TableName() string {
	return "skills"
}

type Project struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	CandidateID  uint                        `gorm:"not null;index" json:"candidate_id"`
	ProjectName  string                      `gorm:"size:255" json:"project_name"`
	Description  string                      `gorm:"type:text" json:"description"`
	Technologies datatypes.JSONSlice[string] `json:"technologies"`
	ProjectURL   string                      `gorm:"size:500" json:"project_url"`
	GithubURL    string                      `gorm:"size:500" json:"github_url"`
	StartDate    *time.Time                  `gorm:"type:date" json:"start_date"`
	EndDate      *time.Time                  `gorm:"type:date" json:"end_date"`
	CreatedAt    time.Time                   `json:"created_at"`
}

func (Project) TableName() string {
	return "projects"
}

type Certification struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	CandidateID         uint       `gorm:"not null;index" json:"candidate_id"`
	CertificationName   string     `gorm:"size:255;not null;index" json:"certification_name"`
	IssuingOrganization string     `gorm:"size:255" json:"issuing_organization"`
	IssueDate           *time.Time `gorm:"type:date" json:"issue_date"`
	ExpiryDate          *time.Time `gorm:"type:date" json:"expiry_date"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (Certification) TableName() string {
	return "certifications"
}

// ExtractedText keeps the raw extraction output for one ingestion of a
// candidate's resume. Re-ingesting the same email appends a new row rather
// than replacing previous ones.
type ExtractedText struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	CandidateID      uint              `gorm:"not null;index" json:"candidate_id"`
	RawText          string            `gorm:"type:text" json:"raw_text"`
	ProcessedText    string            `gorm:"type:text" json:"processed_text"`
	ExtractionMethod string            `gorm:"size:40;not null" json:"extraction_method"`
	PageCount        int               `gorm:"default:1" json:"page_count"`
	WordCount        int               `json:"word_count"`
	ConfidenceScore  float64           `gorm:"type:decimal(3,2)" json:"confidence_score"`
	Metadata         datatypes.JSONMap `json:"metadata"`
	CreatedAt        time.Time         `json:"created_at"`
}

func (ExtractedText) TableName() string {
	return "extracted_text"
}
