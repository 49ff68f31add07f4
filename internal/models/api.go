package models

type BatchSubmitResponse struct {
	BatchID    string `json:"batch_id"`
	BatchName  string `json:"batch_name"`
	TotalFiles int    `json:"total_files"`
	Status     string `json:"status"`
}

type JobRequirementCreate struct {
	JobTitle              string         `json:"job_title" validate:"required"`
	RequiredSkills        []string       `json:"required_skills" validate:"required"`
	PreferredSkills       []string       `json:"preferred_skills"`
	MinExperienceYears    int            `json:"min_experience_years" validate:"gte=0"`
	EducationRequirements map[string]any `json:"education_requirements"`
}

type CandidateStatusUpdate struct {
	Status string `json:"status" validate:"required"`
}

type SkillCount struct {
	Skill string `json:"skill"`
	Count int64  `json:"count"`
}

type DashboardStats struct {
	TotalCandidates        int64             `json:"total_candidates"`
	CandidatesByStatus     map[string]int64  `json:"candidates_by_status"`
	CandidatesByExperience map[string]int64  `json:"candidates_by_experience"`
	AverageScore           float64           `json:"average_score"`
	TopSkills              []SkillCount      `json:"top_skills"`
	RecentBatches          []ProcessingBatch `json:"recent_batches"`
}
