package models

import "strings"

type ExperienceLevel string

const (
	LevelEntry  ExperienceLevel = "ENTRY"
	LevelMid    ExperienceLevel = "MID"
	LevelSenior ExperienceLevel = "SENIOR"
	LevelLead   ExperienceLevel = "LEAD"
)

type CandidateStatus string

const (
	StatusNew      CandidateStatus = "NEW"
	StatusReviewed CandidateStatus = "REVIEWED"
	StatusApproved CandidateStatus = "APPROVED"
	StatusRejected CandidateStatus = "REJECTED"
)

type BatchStatus string

const (
	BatchPending    BatchStatus = "PENDING"
	BatchProcessing BatchStatus = "PROCESSING"
	BatchCompleted  BatchStatus = "COMPLETED"
	BatchFailed     BatchStatus = "FAILED"
)

type ProcessingStatus string

const (
	ProcessingPending    ProcessingStatus = "PENDING"
	ProcessingInProgress ProcessingStatus = "PROCESSING"
	ProcessingSuccess    ProcessingStatus = "SUCCESS"
	ProcessingFailed     ProcessingStatus = "FAILED"
)

type SkillCategory string

const (
	SkillTechnical     SkillCategory = "Technical"
	SkillSoft          SkillCategory = "Soft"
	SkillLanguage      SkillCategory = "Language"
	SkillCertification SkillCategory = "Certification"
	SkillTool          SkillCategory = "Tool"
	SkillFramework     SkillCategory = "Framework"
)

type ProficiencyLevel string

const (
	ProficiencyBeginner     ProficiencyLevel = "BEGINNER"
	ProficiencyIntermediate ProficiencyLevel = "INTERMEDIATE"
	ProficiencyAdvanced     ProficiencyLevel = "ADVANCED"
	ProficiencyExpert       ProficiencyLevel = "EXPERT"
)

type EducationLevel string

const (
	EducationHighSchool EducationLevel = "HIGH_SCHOOL"
	EducationAssociate  EducationLevel = "ASSOCIATE"
	EducationBachelor   EducationLevel = "BACHELOR"
	EducationMaster     EducationLevel = "MASTER"
	EducationPhD        EducationLevel = "PHD"
	EducationOther      EducationLevel = "OTHER"
)

var educationLevels = map[string]EducationLevel{
	"high school": EducationHighSchool,
	"highschool":  EducationHighSchool,
	"associate":   EducationAssociate,
	"bachelor":    EducationBachelor,
	"master":      EducationMaster,
	"phd":         EducationPhD,
	"doctorate":   EducationPhD,
}

var skillCategories = map[string]SkillCategory{
	"technical":     SkillTechnical,
	"soft":          SkillSoft,
	"language":      SkillLanguage,
	"certification": SkillCertification,
	"tool":          SkillTool,
	"framework":     SkillFramework,
}

var proficiencyLevels = map[string]ProficiencyLevel{
	"beginner":     ProficiencyBeginner,
	"intermediate": ProficiencyIntermediate,
	"advanced":     ProficiencyAdvanced,
	"expert":       ProficiencyExpert,
}

var candidateStatuses = map[string]CandidateStatus{
	"NEW":      StatusNew,
	"REVIEWED": StatusReviewed,
	"APPROVED": StatusApproved,
	"REJECTED": StatusRejected,
}

// ParseEducationLevel maps free-text LLM output to an EducationLevel.
// Unknown or empty values fall back to OTHER, never an error.
func ParseEducationLevel(s string) EducationLevel {
	if level, ok := educationLevels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return level
	}
	return EducationOther
}

// ParseSkillCategory defaults unknown values to Technical.
func ParseSkillCategory(s string) SkillCategory {
	if cat, ok := skillCategories[strings.ToLower(strings.TrimSpace(s))]; ok {
		return cat
	}
	return SkillTechnical
}

// ParseProficiencyLevel defaults unknown values to INTERMEDIATE.
func ParseProficiencyLevel(s string) ProficiencyLevel {
	if level, ok := proficiencyLevels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return level
	}
	return ProficiencyIntermediate
}

// ParseCandidateStatus is strict: review statuses come from API callers,
// not from the LLM, so an unknown value is reported back instead of defaulted.
func ParseCandidateStatus(s string) (CandidateStatus, bool) {
	status, ok := candidateStatuses[strings.ToUpper(strings.TrimSpace(s))]
	return status, ok
}
