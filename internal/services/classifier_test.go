package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ats/internal/models"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func floatPtr(v float64) *float64 { return &v }

func TestClassifyAt_SeniorWithOpenEndedRole(t *testing.T) {
	classifier := NewClassifierService()
	at := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	candidate := &models.Candidate{
		Experience: []models.Experience{
			{
				JobTitle:  "Senior Backend Engineer",
				StartDate: datePtr(2019, 1, 15),
				EndDate:   datePtr(2022, 6, 30),
			},
			{
				JobTitle:  "Backend Engineer",
				StartDate: datePtr(2022, 7, 1),
				IsCurrent: true,
			},
		},
	}

	result := classifier.ClassifyAt(candidate, at)

	// 41 + 24 months across the two roles, the open one measured up to
	// the evaluation time.
	assert.Equal(t, models.LevelSenior, result.ExperienceLevel)
	assert.Equal(t, "SENIOR Backend Engineer", result.Classification)
	assert.InDelta(t, 5.79, result.Breakdown.Experience, 0.001)
}

func TestClassifyAt_CompositeScore(t *testing.T) {
	classifier := NewClassifierService()
	at := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	candidate := &models.Candidate{
		Experience: []models.Experience{
			{
				JobTitle:  "Senior Backend Engineer",
				StartDate: datePtr(2019, 1, 15),
				EndDate:   datePtr(2022, 6, 30),
			},
			{
				JobTitle:  "Backend Engineer",
				StartDate: datePtr(2022, 7, 1),
			},
		},
		Education: []models.Education{
			{EducationLevel: models.EducationBachelor, GPA: floatPtr(3.7)},
		},
		Skills: []models.Skill{
			{SkillName: "Go", SkillCategory: models.SkillTechnical, ProficiencyLevel: models.ProficiencyExpert},
			{SkillName: "PostgreSQL", SkillCategory: models.SkillTechnical, ProficiencyLevel: models.ProficiencyAdvanced},
			{SkillName: "Communication", SkillCategory: models.SkillSoft, ProficiencyLevel: models.ProficiencyExpert},
		},
	}

	result := classifier.ClassifyAt(candidate, at)

	assert.InDelta(t, 4.0, result.Breakdown.Education, 0.001)
	assert.InDelta(t, 0.9, result.Breakdown.Skills, 0.001)
	// (5.7917*0.5 + 4*0.2 + 0.9*0.3) * 10
	assert.InDelta(t, 39.66, result.OverallScore, 0.001)
}

func TestClassifyAt_ExperienceLevels(t *testing.T) {
	classifier := NewClassifierService()
	at := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		roles []models.Experience
		want  models.ExperienceLevel
	}{
		{
			name:  "no experience",
			roles: nil,
			want:  models.LevelEntry,
		},
		{
			name: "one year",
			roles: []models.Experience{
				{JobTitle: "Software Engineer", StartDate: datePtr(2023, 7, 1)},
			},
			want: models.LevelEntry,
		},
		{
			name: "three years",
			roles: []models.Experience{
				{JobTitle: "Software Engineer", StartDate: datePtr(2021, 7, 1)},
			},
			want: models.LevelMid,
		},
		{
			name: "six years without senior title",
			roles: []models.Experience{
				{JobTitle: "Software Engineer", StartDate: datePtr(2018, 7, 1)},
			},
			want: models.LevelSenior,
		},
		{
			name: "senior title with short tenure",
			roles: []models.Experience{
				{JobTitle: "Senior Engineer", StartDate: datePtr(2023, 7, 1)},
			},
			want: models.LevelSenior,
		},
		{
			name: "manager with six years",
			roles: []models.Experience{
				{JobTitle: "Engineering Manager", StartDate: datePtr(2018, 7, 1)},
			},
			want: models.LevelLead,
		},
		{
			name: "manager with three years stays mid",
			roles: []models.Experience{
				{JobTitle: "Engineering Manager", StartDate: datePtr(2021, 7, 1)},
			},
			want: models.LevelMid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.ClassifyAt(&models.Candidate{Experience: tt.roles}, at)
			assert.Equal(t, tt.want, result.ExperienceLevel)
		})
	}
}

func TestClassifyAt_EmptyCandidate(t *testing.T) {
	classifier := NewClassifierService()

	result := classifier.ClassifyAt(&models.Candidate{}, time.Now())

	assert.Equal(t, 0.0, result.OverallScore)
	assert.Equal(t, models.LevelEntry, result.ExperienceLevel)
	assert.Equal(t, "ENTRY Professional", result.Classification)
}

func TestClassifyAt_Deterministic(t *testing.T) {
	classifier := NewClassifierService()
	at := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	candidate := &models.Candidate{
		Experience: []models.Experience{
			{JobTitle: "Data Engineer", StartDate: datePtr(2020, 3, 1)},
		},
		Skills: []models.Skill{
			{SkillName: "Python", SkillCategory: models.SkillTechnical, ProficiencyLevel: models.ProficiencyAdvanced},
		},
	}

	first := classifier.ClassifyAt(candidate, at)
	second := classifier.ClassifyAt(candidate, at)

	require.Equal(t, first, second)
}

func TestEducationSubScore(t *testing.T) {
	tests := []struct {
		name      string
		education []models.Education
		want      float64
	}{
		{"none", nil, 0},
		{
			"phd with high gpa",
			[]models.Education{{EducationLevel: models.EducationPhD, GPA: floatPtr(3.9)}},
			6,
		},
		{
			"bachelor with mid gpa",
			[]models.Education{{EducationLevel: models.EducationBachelor, GPA: floatPtr(3.2)}},
			3.5,
		},
		{
			"best entry wins",
			[]models.Education{
				{EducationLevel: models.EducationAssociate},
				{EducationLevel: models.EducationMaster},
			},
			4,
		},
		{
			"unknown level scores one",
			[]models.Education{{EducationLevel: models.EducationOther}},
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, educationSubScore(tt.education), 0.001)
		})
	}
}

func TestSkillsSubScore_IgnoresNonTechnical(t *testing.T) {
	skills := []models.Skill{
		{SkillName: "Go", SkillCategory: models.SkillTechnical, ProficiencyLevel: models.ProficiencyExpert},
		{SkillName: "Leadership", SkillCategory: models.SkillSoft, ProficiencyLevel: models.ProficiencyExpert},
		{SkillName: "SQL", SkillCategory: models.SkillTechnical, ProficiencyLevel: models.ProficiencyBeginner},
	}

	// 1.0 + 0.2 over two technical skills
	assert.InDelta(t, 0.6, skillsSubScore(skills), 0.001)
}

func TestExperienceMonths(t *testing.T) {
	at := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("closed range", func(t *testing.T) {
		exp := models.Experience{StartDate: datePtr(2019, 1, 15), EndDate: datePtr(2022, 6, 30)}
		assert.Equal(t, 41, experienceMonths(exp, at))
	})

	t.Run("open range measured to evaluation time", func(t *testing.T) {
		exp := models.Experience{StartDate: datePtr(2022, 7, 1)}
		assert.Equal(t, 24, experienceMonths(exp, at))
	})

	t.Run("missing start date", func(t *testing.T) {
		exp := models.Experience{EndDate: datePtr(2022, 6, 30)}
		assert.Equal(t, 0, experienceMonths(exp, at))
	})

	t.Run("end before start clamps to zero", func(t *testing.T) {
		exp := models.Experience{StartDate: datePtr(2023, 1, 1), EndDate: datePtr(2022, 1, 1)}
		assert.Equal(t, 0, experienceMonths(exp, at))
	})
}
