package models

// ResumeData is the JSON shape the structuring engine is prompted to return.
// Every field may be missing or null; enum-like strings are coerced with the
// Parse* helpers when the record is persisted.
type ResumeData struct {
	PersonalInfo   PersonalInfo         `json:"personal_info"`
	Education      []EducationEntry     `json:"education"`
	Experience     []ExperienceEntry    `json:"experience"`
	Skills         []SkillEntry         `json:"skills"`
	Projects       []ProjectEntry       `json:"projects"`
	Certifications []CertificationEntry `json:"certifications"`
}

type PersonalInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

type EducationEntry struct {
	Degree         string   `json:"degree"`
	Institution    string   `json:"institution"`
	GraduationYear any      `json:"graduation_year"` // the model emits 2023, "2023" or "2023-05"
	GPA            *float64 `json:"gpa"`
	Major          string   `json:"major"`
	EducationLevel string   `json:"education_level"`
}

type ExperienceEntry struct {
	JobTitle         string   `json:"job_title"`
	Company          string   `json:"company"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	IsCurrent        bool     `json:"is_current"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements"`
}

type SkillEntry struct {
	SkillName        string `json:"skill_name"`
	Category         string `json:"category"`
	ProficiencyLevel string `json:"proficiency_level"`
	YearsExperience  int    `json:"years_experience"`
}

type ProjectEntry struct {
	ProjectName  string   `json:"project_name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	ProjectURL   string   `json:"project_url"`
	GithubURL    string   `json:"github_url"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
}

type CertificationEntry struct {
	CertificationName   string `json:"certification_name"`
	IssuingOrganization string `json:"issuing_organization"`
	IssueDate           string `json:"issue_date"`
	ExpiryDate          string `json:"expiry_date"`
}
