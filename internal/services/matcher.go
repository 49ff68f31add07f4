package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"resume-ats/internal/models"
	"resume-ats/internal/repositories"
)

// Matching thresholds: candidates at or below the minimum score are dropped,
// and at most maxMatches are returned.
const (
	minMatchScore = 30.0
	maxMatches    = 20
)

type MatchEntry struct {
	Candidate       models.Candidate `json:"candidate"`
	MatchScore      float64          `json:"match_score"`
	SkillMatch      float64          `json:"skill_match"`
	ExperienceMatch float64          `json:"experience_match"`
}

// MatcherService ranks all candidates against one job requirement.
type MatcherService interface {
	MatchCandidates(ctx context.Context, jobID uint) ([]MatchEntry, error)
}

type matcherService struct {
	jobs       repositories.JobRepository
	candidates repositories.CandidateRepository
	now        func() time.Time
}

func NewMatcherService(jobs repositories.JobRepository, candidates repositories.CandidateRepository) MatcherService {
	return &matcherService{
		jobs:       jobs,
		candidates: candidates,
		now:        time.Now,
	}
}

// MatchCandidates implements MatcherService. The result is sorted descending
// by match score; ties keep candidate order, so ranking is deterministic.
func (m *matcherService) MatchCandidates(ctx context.Context, jobID uint) ([]MatchEntry, error) {
	job, err := m.jobs.FindByID(jobID)
	if err != nil {
		return nil, err
	}

	candidates, err := m.candidates.AllForMatching()
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	at := m.now()
	matches := make([]MatchEntry, 0, len(candidates))
	for _, candidate := range candidates {
		if entry, ok := scoreMatch(candidate, job, at); ok {
			matches = append(matches, entry)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}
	return matches, nil
}

// scoreMatch computes one candidate's fit. The second return is false when
// the candidate falls at or below the inclusion threshold.
func scoreMatch(candidate models.Candidate, job *models.JobRequirement, at time.Time) (MatchEntry, bool) {
	skillMatch := skillMatchRatio(candidate.Skills, job.RequiredSkills)

	// A zero-year minimum is always satisfied; the >= branch makes the
	// ratio fall-through unreachable in that case.
	years := totalExperienceYears(candidate.Experience, at)
	experienceMatch := 1.0
	if years < float64(job.MinExperienceYears) {
		experienceMatch = years / float64(job.MinExperienceYears)
	}

	overall := (skillMatch*0.7 + experienceMatch*0.3) * 100
	if overall <= minMatchScore {
		return MatchEntry{}, false
	}

	return MatchEntry{
		Candidate:       candidate,
		MatchScore:      round2(overall),
		SkillMatch:      round2(skillMatch * 100),
		ExperienceMatch: round2(experienceMatch * 100),
	}, true
}

// skillMatchRatio is the case-insensitive overlap between the candidate's
// skill names and the job's required list, relative to the required list.
func skillMatchRatio(skills []models.Skill, required []string) float64 {
	if len(required) == 0 {
		return 0
	}

	have := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		have[strings.ToLower(skill.SkillName)] = struct{}{}
	}

	matched := 0
	seen := make(map[string]struct{}, len(required))
	for _, name := range required {
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := have[key]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(seen))
}
