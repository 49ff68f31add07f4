package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEducationLevel(t *testing.T) {
	tests := []struct {
		input string
		want  EducationLevel
	}{
		{"Bachelor", EducationBachelor},
		{"  master  ", EducationMaster},
		{"PhD", EducationPhD},
		{"Doctorate", EducationPhD},
		{"High School", EducationHighSchool},
		{"highschool", EducationHighSchool},
		{"Bootcamp", EducationOther},
		{"", EducationOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEducationLevel(tt.input))
		})
	}
}

func TestParseSkillCategory_DefaultsToTechnical(t *testing.T) {
	assert.Equal(t, SkillSoft, ParseSkillCategory("Soft"))
	assert.Equal(t, SkillFramework, ParseSkillCategory("framework"))
	assert.Equal(t, SkillTechnical, ParseSkillCategory("programming"))
	assert.Equal(t, SkillTechnical, ParseSkillCategory(""))
}

func TestParseProficiencyLevel_DefaultsToIntermediate(t *testing.T) {
	assert.Equal(t, ProficiencyExpert, ParseProficiencyLevel("expert"))
	assert.Equal(t, ProficiencyBeginner, ParseProficiencyLevel("Beginner"))
	assert.Equal(t, ProficiencyIntermediate, ParseProficiencyLevel("ninja"))
	assert.Equal(t, ProficiencyIntermediate, ParseProficiencyLevel(""))
}

func TestParseCandidateStatus_IsStrict(t *testing.T) {
	status, ok := ParseCandidateStatus("approved")
	assert.True(t, ok)
	assert.Equal(t, StatusApproved, status)

	_, ok = ParseCandidateStatus("SHORTLISTED")
	assert.False(t, ok)

	_, ok = ParseCandidateStatus("")
	assert.False(t, ok)
}
