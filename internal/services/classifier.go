package services

import (
	"math"
	"strings"
	"time"

	"resume-ats/internal/models"
)

// Sub-score weights for the composite candidate score.
const (
	experienceWeight = 0.5
	educationWeight  = 0.2
	skillsWeight     = 0.3
)

var (
	seniorMarkers = []string{"senior", "lead", "principal", "architect"}
	midMarkers    = []string{"mid", "intermediate", "ii", "2"}
	leadMarkers   = []string{"manager", "director", "head", "chief"}
)

type ScoreBreakdown struct {
	Experience float64 `json:"experience_score"`
	Education  float64 `json:"education_score"`
	Skills     float64 `json:"skills_score"`
}

type ClassificationResult struct {
	OverallScore    float64                `json:"overall_score"`
	ExperienceLevel models.ExperienceLevel `json:"experience_level"`
	Classification  string                 `json:"classification"`
	Breakdown       ScoreBreakdown         `json:"score_breakdown"`
}

// ClassifierService scores a candidate from its in-memory child records.
// It is a pure function of the records and the evaluation time, so repeated
// runs over the same data always produce the same result.
type ClassifierService interface {
	Classify(candidate *models.Candidate) *ClassificationResult
	ClassifyAt(candidate *models.Candidate, at time.Time) *ClassificationResult
}

type classifierService struct{}

func NewClassifierService() ClassifierService {
	return &classifierService{}
}

// Classify implements ClassifierService.
func (s *classifierService) Classify(candidate *models.Candidate) *ClassificationResult {
	return s.ClassifyAt(candidate, time.Now())
}

// ClassifyAt implements ClassifierService. Open experience entries are
// measured up to the given evaluation time.
func (s *classifierService) ClassifyAt(candidate *models.Candidate, at time.Time) *ClassificationResult {
	experienceScore := experienceSubScore(candidate.Experience, at)
	educationScore := educationSubScore(candidate.Education)
	skillsScore := skillsSubScore(candidate.Skills)

	// The weighted blend of the 0-10 sub-scores lands on a 0-10 scale;
	// the stored composite is 0-100.
	overall := (experienceScore*experienceWeight +
		educationScore*educationWeight +
		skillsScore*skillsWeight) * 10

	level := experienceLevel(candidate.Experience, at)

	return &ClassificationResult{
		OverallScore:    round2(overall),
		ExperienceLevel: level,
		Classification:  classificationLabel(level, candidate.Experience),
		Breakdown: ScoreBreakdown{
			Experience: round2(experienceScore),
			Education:  round2(educationScore),
			Skills:     round2(skillsScore),
		},
	}
}

// experienceSubScore blends total duration (up to 7 points at ten years) with
// average role seniority (up to 3 points).
func experienceSubScore(experiences []models.Experience, at time.Time) float64 {
	if len(experiences) == 0 {
		return 0
	}

	totalMonths := 0
	roleQuality := 0
	for _, exp := range experiences {
		totalMonths += experienceMonths(exp, at)

		title := strings.ToLower(exp.JobTitle)
		switch {
		case containsAny(title, seniorMarkers):
			roleQuality += 3
		case containsAny(title, midMarkers):
			roleQuality += 2
		default:
			roleQuality++
		}
	}

	totalYears := float64(totalMonths) / 12
	yearsScore := math.Min(totalYears/10, 1.0) * 7
	qualityScore := math.Min(float64(roleQuality)/float64(len(experiences))/3, 1.0) * 3

	return yearsScore + qualityScore
}

// educationSubScore takes the best single entry: level points plus a GPA
// bonus, capped at 10.
func educationSubScore(educations []models.Education) float64 {
	maxScore := 0.0
	for _, edu := range educations {
		var score float64
		switch edu.EducationLevel {
		case models.EducationPhD:
			score = 5
		case models.EducationMaster:
			score = 4
		case models.EducationBachelor:
			score = 3
		case models.EducationAssociate:
			score = 2
		default:
			score = 1
		}

		if edu.GPA != nil {
			switch {
			case *edu.GPA >= 3.5:
				score++
			case *edu.GPA >= 3.0:
				score += 0.5
			}
		}

		maxScore = math.Max(maxScore, score)
	}
	return math.Min(maxScore, 10)
}

// skillsSubScore sums proficiency weights over technical skills only.
func skillsSubScore(skills []models.Skill) float64 {
	score := 0.0
	for _, skill := range skills {
		if skill.SkillCategory != models.SkillTechnical {
			continue
		}
		switch skill.ProficiencyLevel {
		case models.ProficiencyExpert:
			score += 1.0
		case models.ProficiencyAdvanced:
			score += 0.8
		case models.ProficiencyIntermediate:
			score += 0.5
		default:
			score += 0.2
		}
	}
	return math.Min(score/2, 10)
}

func experienceLevel(experiences []models.Experience, at time.Time) models.ExperienceLevel {
	if len(experiences) == 0 {
		return models.LevelEntry
	}

	totalMonths := 0
	hasSeniorRole := false
	hasLeadRole := false
	for _, exp := range experiences {
		totalMonths += experienceMonths(exp, at)

		title := strings.ToLower(exp.JobTitle)
		if containsAny(title, seniorMarkers) {
			hasSeniorRole = true
		}
		if containsAny(title, leadMarkers) {
			hasLeadRole = true
		}
	}

	totalYears := float64(totalMonths) / 12
	switch {
	case hasLeadRole && totalYears >= 5:
		return models.LevelLead
	case hasSeniorRole || totalYears >= 5:
		return models.LevelSenior
	case totalYears >= 2:
		return models.LevelMid
	default:
		return models.LevelEntry
	}
}

// classificationLabel joins the seniority level with the most recent job
// title, falling back to a generic title when no usable experience exists.
func classificationLabel(level models.ExperienceLevel, experiences []models.Experience) string {
	title := "Professional"

	var latest *models.Experience
	for i := range experiences {
		exp := &experiences[i]
		if exp.StartDate == nil {
			continue
		}
		if latest == nil || exp.StartDate.After(*latest.StartDate) {
			latest = exp
		}
	}
	if latest == nil && len(experiences) > 0 {
		latest = &experiences[0]
	}
	if latest != nil && latest.JobTitle != "" {
		title = latest.JobTitle
	}

	return string(level) + " " + title
}

// experienceMonths measures one entry in whole months, treating a missing end
// date as ongoing up to the evaluation time. Never negative.
func experienceMonths(exp models.Experience, at time.Time) int {
	if exp.StartDate == nil {
		return 0
	}
	end := at
	if exp.EndDate != nil {
		end = *exp.EndDate
	}

	months := (end.Year()-exp.StartDate.Year())*12 + int(end.Month()) - int(exp.StartDate.Month())
	if months < 0 {
		return 0
	}
	return months
}

// totalExperienceYears is shared with the matcher.
func totalExperienceYears(experiences []models.Experience, at time.Time) float64 {
	totalMonths := 0
	for _, exp := range experiences {
		totalMonths += experienceMonths(exp, at)
	}
	return float64(totalMonths) / 12
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
