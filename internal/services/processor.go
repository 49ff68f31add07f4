package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"resume-ats/internal/models"
	"resume-ats/internal/repositories"
)

type ResumeFile struct {
	Filename string
	Content  []byte
}

// ResumeProcessor runs the batch ingestion pipeline. SubmitBatch returns as
// soon as the batch record exists; files are processed by a bounded worker
// pool and progress is observable through the batch identifier.
type ResumeProcessor interface {
	SubmitBatch(ctx context.Context, files []ResumeFile, batchName string) (string, error)
}

type resumeProcessor struct {
	batches    repositories.BatchRepository
	candidates repositories.CandidateRepository
	store      ObjectStore
	extractor  TextExtractor
	structurer StructuringEngine
	classifier ClassifierService
	index      ResumeIndex // nil when semantic search is disabled

	concurrency int

	// emailLocks serializes candidate upserts per email so two files for the
	// same person inside one batch cannot interleave their delete/reinsert.
	// Entries are reference counted and removed once the last holder
	// releases, so the map stays bounded by in-flight files.
	mu         sync.Mutex
	emailLocks map[string]*emailLock
}

type emailLock struct {
	mu   sync.Mutex
	refs int
}

func NewResumeProcessor(
	batches repositories.BatchRepository,
	candidates repositories.CandidateRepository,
	store ObjectStore,
	extractor TextExtractor,
	structurer StructuringEngine,
	classifier ClassifierService,
	index ResumeIndex,
	concurrency int,
) ResumeProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &resumeProcessor{
		batches:     batches,
		candidates:  candidates,
		store:       store,
		extractor:   extractor,
		structurer:  structurer,
		classifier:  classifier,
		index:       index,
		concurrency: concurrency,
		emailLocks:  map[string]*emailLock{},
	}
}

// SubmitBatch implements ResumeProcessor.
func (p *resumeProcessor) SubmitBatch(ctx context.Context, files []ResumeFile, batchName string) (string, error) {
	batchID := uuid.New().String()
	if batchName == "" {
		batchName = "Batch_" + time.Now().Format("20060102_150405")
	}

	batch := &models.ProcessingBatch{
		BatchID:    batchID,
		BatchName:  batchName,
		TotalFiles: len(files),
		Status:     models.BatchPending,
	}
	if err := p.batches.CreateBatch(batch); err != nil {
		return "", fmt.Errorf("failed to create batch: %w", err)
	}

	// Processing outlives the submitting request
	go p.processBatch(context.Background(), batchID, files)

	return batchID, nil
}

func (p *resumeProcessor) processBatch(ctx context.Context, batchID string, files []ResumeFile) {
	if err := p.batches.MarkProcessing(batchID); err != nil {
		log.Printf("❌ Failed to start batch %s: %v\n", batchID, err)
		if err := p.batches.MarkFailed(batchID); err != nil {
			log.Printf("❌ Failed to mark batch %s failed: %v\n", batchID, err)
		}
		return
	}
	log.Printf("🔄 Batch %s processing %d files with %d workers\n", batchID, len(files), p.concurrency)

	// Tracks failures of the batch bookkeeping itself; per-file failures
	// never set it.
	var batchBroken atomic.Bool

	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)
	for _, f := range files {
		file := f
		g.Go(func() error {
			success := p.processFile(ctx, batchID, file)
			if err := p.batches.RecordFileResult(batchID, success); err != nil {
				log.Printf("❌ Failed to record result for %s in batch %s: %v\n", file.Filename, batchID, err)
				batchBroken.Store(true)
			}
			return nil
		})
	}
	_ = g.Wait()

	if batchBroken.Load() {
		if err := p.batches.MarkFailed(batchID); err != nil {
			log.Printf("❌ Failed to mark batch %s failed: %v\n", batchID, err)
		}
		return
	}
	if err := p.batches.MarkCompleted(batchID); err != nil {
		log.Printf("❌ Failed to complete batch %s: %v\n", batchID, err)
		return
	}
	log.Printf("✅ Batch %s completed\n", batchID)
}

// processFile runs one file through the state machine. Every failure path
// records the reason on the file's log entry and returns false; nothing
// escapes to abort sibling files.
func (p *resumeProcessor) processFile(ctx context.Context, batchID string, file ResumeFile) (success bool) {
	start := time.Now()

	fileLog := &models.ProcessingLog{
		BatchID:  batchID,
		Filename: file.Filename,
		FileSize: int64(len(file.Content)),
		Status:   models.ProcessingInProgress,
	}
	if err := p.batches.CreateLog(fileLog); err != nil {
		log.Printf("❌ Failed to create processing log for %s: %v\n", file.Filename, err)
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Panic processing %s: %v\n", file.Filename, r)
			p.failLog(fileLog, start, fmt.Sprintf("internal error: %v", r))
			success = false
		}
	}()

	obj, err := p.store.Put(ctx, file.Content, file.Filename)
	if err != nil {
		p.failLog(fileLog, start, fmt.Sprintf("storage upload failed: %v", err))
		return false
	}
	fileLog.StorageKey = obj.Key
	log.Printf("📦 Uploaded %s as %s\n", file.Filename, obj.Key)

	extraction, err := p.extractor.Extract(ctx, file.Content, file.Filename, obj.Key)
	if err != nil {
		p.failLog(fileLog, start, fmt.Sprintf("text extraction failed: %v", err))
		return false
	}
	log.Printf("📄 Extracted %d words from %s via %s\n", extraction.WordCount, file.Filename, extraction.Method)

	llmStart := time.Now()
	structured, err := p.structurer.Extract(ctx, extraction.Text)
	llmSeconds := time.Since(llmStart).Seconds()
	fileLog.LLMSeconds = &llmSeconds
	if err != nil {
		p.failLog(fileLog, start, fmt.Sprintf("resume structuring failed: %v", err))
		return false
	}
	log.Printf("🤖 Structured %s (confidence %.2f)\n", file.Filename, structured.Confidence)

	candidate := candidateFromResume(structured.Data, file.Filename, obj.Key)

	result := p.classifier.Classify(candidate)
	candidate.OverallScore = result.OverallScore
	candidate.ExperienceLevel = result.ExperienceLevel
	candidate.Classification = result.Classification

	extractedText := &models.ExtractedText{
		RawText:          extraction.Text,
		ProcessedText:    CleanText(extraction.Text),
		ExtractionMethod: extraction.Method,
		PageCount:        extraction.PageCount,
		WordCount:        extraction.WordCount,
		ConfidenceScore:  structured.Confidence,
		Metadata: datatypes.JSONMap{
			"file_size":         len(file.Content),
			"extraction_method": extraction.Method,
			"llm_seconds":       llmSeconds,
		},
	}

	unlock := p.lockEmail(candidate.Email)
	err = p.candidates.ReplaceFromResume(candidate, extractedText)
	if err == nil && p.index != nil {
		if indexErr := p.index.IndexCandidate(ctx, candidate.ID, extraction.Text); indexErr != nil {
			log.Printf("⚠️  Failed to index resume for candidate %d: %v\n", candidate.ID, indexErr)
		}
	}
	unlock()
	if err != nil {
		p.failLog(fileLog, start, fmt.Sprintf("failed to save candidate: %v", err))
		return false
	}

	confidence := structured.Confidence
	seconds := time.Since(start).Seconds()
	fileLog.CandidateID = &candidate.ID
	fileLog.Status = models.ProcessingSuccess
	fileLog.ExtractionConfidence = &confidence
	fileLog.ProcessingSeconds = &seconds
	if err := p.batches.SaveLog(fileLog); err != nil {
		log.Printf("❌ Failed to save processing log for %s: %v\n", file.Filename, err)
	}

	log.Printf("✅ Processed %s as candidate %d\n", file.Filename, candidate.ID)
	return true
}

func (p *resumeProcessor) failLog(fileLog *models.ProcessingLog, start time.Time, reason string) {
	seconds := time.Since(start).Seconds()
	fileLog.Status = models.ProcessingFailed
	fileLog.ErrorMessage = reason
	fileLog.ProcessingSeconds = &seconds
	if err := p.batches.SaveLog(fileLog); err != nil {
		log.Printf("❌ Failed to record failure for %s: %v\n", fileLog.Filename, err)
	}
	log.Printf("❌ %s: %s\n", fileLog.Filename, reason)
}

// lockEmail returns the unlock for the per-email mutex, or a no-op when the
// resume carried no email (such candidates are always fresh rows).
func (p *resumeProcessor) lockEmail(email *string) func() {
	if email == nil || *email == "" {
		return func() {}
	}
	key := strings.ToLower(*email)

	p.mu.Lock()
	lock, ok := p.emailLocks[key]
	if !ok {
		lock = &emailLock{}
		p.emailLocks[key] = lock
	}
	lock.refs++
	p.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		p.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(p.emailLocks, key)
		}
		p.mu.Unlock()
	}
}

// candidateFromResume converts the structuring engine's output into the
// persistence model, coercing enum-like strings and flexible date formats.
func candidateFromResume(data models.ResumeData, filename, storageKey string) *models.Candidate {
	candidate := &models.Candidate{
		FullName:         data.PersonalInfo.FullName,
		Phone:            data.PersonalInfo.Phone,
		Address:          data.PersonalInfo.Address,
		Status:           models.StatusNew,
		OriginalFilename: filename,
		StorageKey:       storageKey,
	}
	if email := strings.TrimSpace(data.PersonalInfo.Email); email != "" {
		candidate.Email = &email
	}

	for _, edu := range data.Education {
		candidate.Education = append(candidate.Education, models.Education{
			Degree:         edu.Degree,
			Institution:    edu.Institution,
			GraduationYear: extractYear(edu.GraduationYear),
			GPA:            edu.GPA,
			Major:          edu.Major,
			EducationLevel: models.ParseEducationLevel(edu.EducationLevel),
		})
	}

	for _, exp := range data.Experience {
		candidate.Experience = append(candidate.Experience, models.Experience{
			JobTitle:         exp.JobTitle,
			Company:          exp.Company,
			StartDate:        parseDate(exp.StartDate),
			EndDate:          parseDate(exp.EndDate),
			IsCurrent:        exp.IsCurrent,
			Responsibilities: datatypes.NewJSONSlice(exp.Responsibilities),
			Achievements:     datatypes.NewJSONSlice(exp.Achievements),
		})
	}

	for _, skill := range data.Skills {
		candidate.Skills = append(candidate.Skills, models.Skill{
			SkillName:        skill.SkillName,
			SkillCategory:    models.ParseSkillCategory(skill.Category),
			ProficiencyLevel: models.ParseProficiencyLevel(skill.ProficiencyLevel),
			YearsExperience:  skill.YearsExperience,
		})
	}

	for _, project := range data.Projects {
		candidate.Projects = append(candidate.Projects, models.Project{
			ProjectName:  project.ProjectName,
			Description:  project.Description,
			Technologies: datatypes.NewJSONSlice(project.Technologies),
			ProjectURL:   project.ProjectURL,
			GithubURL:    project.GithubURL,
			StartDate:    parseDate(project.StartDate),
			EndDate:      parseDate(project.EndDate),
		})
	}

	for _, cert := range data.Certifications {
		candidate.Certifications = append(candidate.Certifications, models.Certification{
			CertificationName:   cert.CertificationName,
			IssuingOrganization: cert.IssuingOrganization,
			IssueDate:           parseDate(cert.IssueDate),
			ExpiryDate:          parseDate(cert.ExpiryDate),
		})
	}

	return candidate
}

var dateFormats = []string{"2006-01-02", "2006-01", "2006", "01/02/2006", "02/01/2006"}

// parseDate accepts the date formats the structuring engine is prompted to
// use, plus a few it produces anyway. Unparseable input becomes nil.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return &t
		}
	}
	return nil
}

// extractYear handles graduation years arriving as JSON numbers, "YYYY"
// strings or "YYYY-MM" strings.
func extractYear(v any) *int {
	switch value := v.(type) {
	case nil:
		return nil
	case float64:
		year := int(value)
		return &year
	case string:
		s := strings.TrimSpace(value)
		if s == "" {
			return nil
		}
		if idx := strings.Index(s, "-"); idx > 0 {
			s = s[:idx]
		}
		if year, err := strconv.Atoi(s); err == nil {
			return &year
		}
		return nil
	default:
		return nil
	}
}
