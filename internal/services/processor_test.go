package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ats/internal/models"
	"resume-ats/internal/repositories"
)

type fakeBatchRepo struct {
	mu      sync.Mutex
	batches map[string]*models.ProcessingBatch
	logs    []*models.ProcessingLog
	nextLog uint
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: map[string]*models.ProcessingBatch{}}
}

func (f *fakeBatchRepo) CreateBatch(batch *models.ProcessingBatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches[batch.BatchID] = batch
	return nil
}

func (f *fakeBatchRepo) FindByBatchID(batchID string) (*models.ProcessingBatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch, ok := f.batches[batchID]
	if !ok {
		return nil, fmt.Errorf("batch %s: %w", batchID, repositories.ErrNotFound)
	}
	copied := *batch
	return &copied, nil
}

func (f *fakeBatchRepo) ListRecent(limit int) ([]models.ProcessingBatch, error) { return nil, nil }

func (f *fakeBatchRepo) MarkProcessing(batchID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches[batchID].Status = models.BatchProcessing
	return nil
}

func (f *fakeBatchRepo) MarkCompleted(batchID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches[batchID].Status = models.BatchCompleted
	return nil
}

func (f *fakeBatchRepo) MarkFailed(batchID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches[batchID].Status = models.BatchFailed
	return nil
}

func (f *fakeBatchRepo) RecordFileResult(batchID string, success bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch := f.batches[batchID]
	batch.ProcessedFiles++
	if success {
		batch.SuccessfulFiles++
	} else {
		batch.FailedFiles++
	}
	return nil
}

func (f *fakeBatchRepo) CreateLog(entry *models.ProcessingLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextLog++
	entry.ID = f.nextLog
	f.logs = append(f.logs, entry)
	return nil
}

func (f *fakeBatchRepo) SaveLog(entry *models.ProcessingLog) error { return nil }

func (f *fakeBatchRepo) LogsForBatch(batchID string) ([]models.ProcessingLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ProcessingLog
	for _, entry := range f.logs {
		if entry.BatchID == batchID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (f *fakeBatchRepo) logFor(filename string) *models.ProcessingLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, entry := range f.logs {
		if entry.Filename == filename {
			return entry
		}
	}
	return nil
}

type fakeCandidateStore struct {
	repositories.CandidateRepository
	mu     sync.Mutex
	nextID uint
	saved  []*models.Candidate
	texts  []*models.ExtractedText
}

func (f *fakeCandidateStore) ReplaceFromResume(candidate *models.Candidate, text *models.ExtractedText) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if candidate.ID == 0 {
		f.nextID++
		candidate.ID = f.nextID
	}
	f.saved = append(f.saved, candidate)
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeCandidateStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fakeObjectStore struct {
	failOn map[string]bool
}

func (f *fakeObjectStore) Put(ctx context.Context, content []byte, filename string) (*StoredObject, error) {
	if f.failOn[filename] {
		return nil, errors.New("bucket unavailable")
	}
	return &StoredObject{Key: "resumes/" + filename, Size: int64(len(content))}, nil
}

func (f *fakeObjectStore) Get(ctx context.Context, key string) ([]byte, error) { return nil, nil }
func (f *fakeObjectStore) Delete(ctx context.Context, key string) error        { return nil }
func (f *fakeObjectStore) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "", nil
}

type fakeExtractor struct {
	failOn map[string]bool
}

func (f *fakeExtractor) Extract(ctx context.Context, content []byte, filename, storageKey string) (*Extraction, error) {
	if f.failOn[filename] {
		return nil, errors.New("encrypted document")
	}
	return &Extraction{
		Text:      string(content),
		Method:    MethodPDF,
		PageCount: 1,
		WordCount: len(content),
	}, nil
}

type fakeStructurer struct {
	email string
}

func (f *fakeStructurer) Extract(ctx context.Context, text string) (*StructuredResume, error) {
	data := models.ResumeData{}
	data.PersonalInfo.FullName = "Test Candidate"
	data.PersonalInfo.Email = f.email
	return &StructuredResume{Data: data, Confidence: 0.85}, nil
}

type fakeClassifier struct{}

func (f *fakeClassifier) Classify(candidate *models.Candidate) *ClassificationResult {
	return &ClassificationResult{
		OverallScore:    42.5,
		ExperienceLevel: models.LevelMid,
		Classification:  "MID Test Candidate",
	}
}

func (f *fakeClassifier) ClassifyAt(candidate *models.Candidate, at time.Time) *ClassificationResult {
	return f.Classify(candidate)
}

func newTestProcessor(batches *fakeBatchRepo, candidates *fakeCandidateStore, store ObjectStore, extractor TextExtractor) *resumeProcessor {
	if store == nil {
		store = &fakeObjectStore{}
	}
	if extractor == nil {
		extractor = &fakeExtractor{}
	}
	p := NewResumeProcessor(
		batches,
		candidates,
		store,
		extractor,
		&fakeStructurer{},
		&fakeClassifier{},
		nil,
		2,
	)
	return p.(*resumeProcessor)
}

func seedBatch(t *testing.T, batches *fakeBatchRepo, files []ResumeFile) string {
	t.Helper()
	batchID := "test-batch"
	require.NoError(t, batches.CreateBatch(&models.ProcessingBatch{
		BatchID:    batchID,
		TotalFiles: len(files),
		Status:     models.BatchPending,
	}))
	return batchID
}

func TestProcessBatch_AllFilesSucceed(t *testing.T) {
	batches := newFakeBatchRepo()
	candidates := &fakeCandidateStore{}
	processor := newTestProcessor(batches, candidates, nil, nil)

	files := []ResumeFile{
		{Filename: "a.pdf", Content: []byte("resume a")},
		{Filename: "b.pdf", Content: []byte("resume b")},
		{Filename: "c.pdf", Content: []byte("resume c")},
	}
	batchID := seedBatch(t, batches, files)

	processor.processBatch(context.Background(), batchID, files)

	batch, err := batches.FindByBatchID(batchID)
	require.NoError(t, err)
	assert.Equal(t, models.BatchCompleted, batch.Status)
	assert.Equal(t, 3, batch.ProcessedFiles)
	assert.Equal(t, 3, batch.SuccessfulFiles)
	assert.Equal(t, 0, batch.FailedFiles)
	assert.Equal(t, batch.ProcessedFiles, batch.SuccessfulFiles+batch.FailedFiles)

	assert.Equal(t, 3, candidates.count())
	for _, f := range files {
		entry := batches.logFor(f.Filename)
		require.NotNil(t, entry)
		assert.Equal(t, models.ProcessingSuccess, entry.Status)
		require.NotNil(t, entry.CandidateID)
		require.NotNil(t, entry.ExtractionConfidence)
		assert.InDelta(t, 0.85, *entry.ExtractionConfidence, 0.001)
	}
}

func TestProcessBatch_OneFailureDoesNotAbortOthers(t *testing.T) {
	batches := newFakeBatchRepo()
	candidates := &fakeCandidateStore{}
	extractor := &fakeExtractor{failOn: map[string]bool{"bad.pdf": true}}
	processor := newTestProcessor(batches, candidates, nil, extractor)

	files := []ResumeFile{
		{Filename: "good.pdf", Content: []byte("resume")},
		{Filename: "bad.pdf", Content: []byte("???")},
		{Filename: "also-good.pdf", Content: []byte("resume")},
	}
	batchID := seedBatch(t, batches, files)

	processor.processBatch(context.Background(), batchID, files)

	batch, err := batches.FindByBatchID(batchID)
	require.NoError(t, err)
	assert.Equal(t, models.BatchCompleted, batch.Status)
	assert.Equal(t, 3, batch.ProcessedFiles)
	assert.Equal(t, 2, batch.SuccessfulFiles)
	assert.Equal(t, 1, batch.FailedFiles)

	failed := batches.logFor("bad.pdf")
	require.NotNil(t, failed)
	assert.Equal(t, models.ProcessingFailed, failed.Status)
	assert.Contains(t, failed.ErrorMessage, "text extraction failed")
	assert.Nil(t, failed.CandidateID)

	assert.Equal(t, 2, candidates.count())
}

func TestProcessBatch_StorageFailure(t *testing.T) {
	batches := newFakeBatchRepo()
	candidates := &fakeCandidateStore{}
	store := &fakeObjectStore{failOn: map[string]bool{"resume.pdf": true}}
	processor := newTestProcessor(batches, candidates, store, nil)

	files := []ResumeFile{{Filename: "resume.pdf", Content: []byte("resume")}}
	batchID := seedBatch(t, batches, files)

	processor.processBatch(context.Background(), batchID, files)

	batch, err := batches.FindByBatchID(batchID)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.FailedFiles)

	entry := batches.logFor("resume.pdf")
	require.NotNil(t, entry)
	assert.Contains(t, entry.ErrorMessage, "storage upload failed")
	assert.Zero(t, candidates.count())
}

func TestSubmitBatch_RunsToCompletion(t *testing.T) {
	batches := newFakeBatchRepo()
	candidates := &fakeCandidateStore{}
	processor := newTestProcessor(batches, candidates, nil, nil)

	files := []ResumeFile{{Filename: "resume.pdf", Content: []byte("resume")}}
	batchID, err := processor.SubmitBatch(context.Background(), files, "my batch")
	require.NoError(t, err)
	require.NotEmpty(t, batchID)

	batch, err := batches.FindByBatchID(batchID)
	require.NoError(t, err)
	assert.Equal(t, "my batch", batch.BatchName)
	assert.Equal(t, 1, batch.TotalFiles)

	// Processing runs in the background; wait for the terminal state.
	require.Eventually(t, func() bool {
		batch, err := batches.FindByBatchID(batchID)
		return err == nil && batch.Status == models.BatchCompleted
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, candidates.count())
}

func TestCandidateFromResume(t *testing.T) {
	data := models.ResumeData{
		PersonalInfo: models.PersonalInfo{
			FullName: "Jane Doe",
			Email:    "  jane@example.com ",
			Phone:    "555-123-4567",
		},
		Education: []models.EducationEntry{
			{Degree: "B.Sc.", EducationLevel: "Bachelor", GraduationYear: "2023-05"},
		},
		Experience: []models.ExperienceEntry{
			{JobTitle: "Engineer", StartDate: "2019-01", EndDate: "2022-06-30"},
		},
		Skills: []models.SkillEntry{
			{SkillName: "Go", Category: "technical", ProficiencyLevel: "expert"},
			{SkillName: "Mentoring", Category: "people stuff", ProficiencyLevel: "wizard"},
		},
	}

	candidate := candidateFromResume(data, "jane.pdf", "resumes/abc.pdf")

	require.NotNil(t, candidate.Email)
	assert.Equal(t, "jane@example.com", *candidate.Email)
	assert.Equal(t, models.StatusNew, candidate.Status)
	assert.Equal(t, "jane.pdf", candidate.OriginalFilename)
	assert.Equal(t, "resumes/abc.pdf", candidate.StorageKey)

	require.Len(t, candidate.Education, 1)
	assert.Equal(t, models.EducationBachelor, candidate.Education[0].EducationLevel)
	require.NotNil(t, candidate.Education[0].GraduationYear)
	assert.Equal(t, 2023, *candidate.Education[0].GraduationYear)

	require.Len(t, candidate.Experience, 1)
	require.NotNil(t, candidate.Experience[0].StartDate)
	assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), *candidate.Experience[0].StartDate)
	require.NotNil(t, candidate.Experience[0].EndDate)

	require.Len(t, candidate.Skills, 2)
	assert.Equal(t, models.SkillTechnical, candidate.Skills[0].SkillCategory)
	assert.Equal(t, models.ProficiencyExpert, candidate.Skills[0].ProficiencyLevel)
	// Unknown enum strings fall back to defaults instead of failing the file.
	assert.Equal(t, models.SkillTechnical, candidate.Skills[1].SkillCategory)
	assert.Equal(t, models.ProficiencyIntermediate, candidate.Skills[1].ProficiencyLevel)
}

func TestCandidateFromResume_NoEmail(t *testing.T) {
	candidate := candidateFromResume(models.ResumeData{}, "anon.pdf", "resumes/anon.pdf")
	assert.Nil(t, candidate.Email)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  *time.Time
	}{
		{"2019-01-15", datePtr(2019, 1, 15)},
		{"2019-01", datePtr(2019, 1, 1)},
		{"2019", datePtr(2019, 1, 1)},
		{"", nil},
		{"Present", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseDate(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got))
		})
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  *int
	}{
		{"json number", float64(2023), intPtr(2023)},
		{"plain string", "2023", intPtr(2023)},
		{"year-month string", "2023-05", intPtr(2023)},
		{"empty string", "", nil},
		{"garbage", "unknown", nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractYear(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func intPtr(v int) *int { return &v }

func TestLockEmail_MapIsPrunedAfterRelease(t *testing.T) {
	processor := newTestProcessor(newFakeBatchRepo(), &fakeCandidateStore{}, nil, nil)

	email := "Jane@Example.com"
	unlock := processor.lockEmail(&email)
	processor.mu.Lock()
	assert.Len(t, processor.emailLocks, 1)
	processor.mu.Unlock()

	unlock()
	processor.mu.Lock()
	assert.Empty(t, processor.emailLocks)
	processor.mu.Unlock()
}

func TestLockEmail_ConcurrentHoldersDoNotLeak(t *testing.T) {
	processor := newTestProcessor(newFakeBatchRepo(), &fakeCandidateStore{}, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		email := "jane@example.com"
		if i%2 == 0 {
			email = "JANE@EXAMPLE.COM" // same key after lowercasing
		}
		wg.Add(1)
		go func(addr string) {
			defer wg.Done()
			unlock := processor.lockEmail(&addr)
			defer unlock()
		}(email)
	}
	wg.Wait()

	processor.mu.Lock()
	assert.Empty(t, processor.emailLocks)
	processor.mu.Unlock()
}

func TestLockEmail_MissingEmailIsNoOp(t *testing.T) {
	processor := newTestProcessor(newFakeBatchRepo(), &fakeCandidateStore{}, nil, nil)

	unlock := processor.lockEmail(nil)
	unlock()

	empty := ""
	unlock = processor.lockEmail(&empty)
	unlock()

	processor.mu.Lock()
	assert.Empty(t, processor.emailLocks)
	processor.mu.Unlock()
}
