package preparation

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanngo/preppath/internal/llm"
	"github.com/tuanngo/preppath/internal/scan"
	"github.com/tuanngo/preppath/internal/types"
)

// memStore is an in-memory Store for orchestrator tests.
type memStore struct {
	mu           sync.Mutex
	rowMu        sync.Mutex
	analyses     map[uuid.UUID]*types.JDAnalysis
	preparations map[uuid.UUID]*types.Preparation
	roadmaps     map[uuid.UUID]*types.Roadmap
	sessions     []*AssessmentSession
}

func newMemStore() *memStore {
	return &memStore{
		analyses:     make(map[uuid.UUID]*types.JDAnalysis),
		preparations: make(map[uuid.UUID]*types.Preparation),
		roadmaps:     make(map[uuid.UUID]*types.Roadmap),
	}
}

func (m *memStore) CreateAnalysis(_ context.Context, a *types.JDAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *a
	m.analyses[a.ID] = &clone
	return nil
}

func (m *memStore) GetAnalysis(_ context.Context, id uuid.UUID) (*types.JDAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.analyses[id]
	if !ok {
		return nil, &ErrNotFound{Kind: "jd_analysis", ID: id.String()}
	}
	clone := *a
	return &clone, nil
}

func (m *memStore) CreatePreparation(_ context.Context, p *types.Preparation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := clonePrep(p)
	m.preparations[p.ID] = clone
	return nil
}

func (m *memStore) GetPreparation(_ context.Context, id uuid.UUID) (*types.Preparation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.preparations[id]
	if !ok {
		return nil, &ErrNotFound{Kind: "preparation", ID: id.String()}
	}
	return clonePrep(p), nil
}

func (m *memStore) UpdatePreparation(_ context.Context, p *types.Preparation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preparations[p.ID] = clonePrep(p)
	return nil
}

func (m *memStore) ListPreparationsByUser(_ context.Context, userID uuid.UUID) ([]types.Preparation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Preparation
	for _, p := range m.preparations {
		if p.UserID == userID {
			out = append(out, *clonePrep(p))
		}
	}
	return out, nil
}

func (m *memStore) WithPreparationLock(ctx context.Context, id uuid.UUID, fn func(context.Context, *types.Preparation) error) error {
	m.rowMu.Lock()
	defer m.rowMu.Unlock()
	m.mu.Lock()
	p, ok := m.preparations[id]
	if !ok {
		m.mu.Unlock()
		return &ErrNotFound{Kind: "preparation", ID: id.String()}
	}
	working := clonePrep(p)
	m.mu.Unlock()
	if err := fn(ctx, working); err != nil {
		return err
	}
	m.mu.Lock()
	m.preparations[id] = working
	m.mu.Unlock()
	return nil
}

func (m *memStore) SaveAssessment(_ context.Context, s *AssessmentSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, s)
	return nil
}

func (m *memStore) CreateRoadmap(_ context.Context, r *types.Roadmap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *r
	m.roadmaps[r.ID] = &clone
	return nil
}

func (m *memStore) GetRoadmap(_ context.Context, id uuid.UUID) (*types.Roadmap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roadmaps[id]
	if !ok {
		return nil, &ErrNotFound{Kind: "roadmap", ID: id.String()}
	}
	clone := *r
	return &clone, nil
}

func clonePrep(p *types.Preparation) *types.Preparation {
	clone := *p
	clone.KnowledgeAreas = append([]string(nil), p.KnowledgeAreas...)
	clone.Questions = append([]types.Question(nil), p.Questions...)
	return &clone
}

// fixedBank serves a static warehouse pool.
type fixedBank struct {
	questions []scan.BankQuestion
}

func (f *fixedBank) ListApproved(context.Context) ([]scan.BankQuestion, error) {
	return f.questions, nil
}

func workflowClient() *llm.FakeClient {
	return &llm.FakeClient{
		Responses: map[string]string{
			"Analyze the following job description": `{
				"skills": [{"name": "Go"}, {"name": "PostgreSQL"}],
				"domains": [{"name": "Payments"}],
				"keywords": [{"term": "gRPC"}],
				"requirements_summary": "Backend role."
			}`,
			"Identify 3 to 8 knowledge areas": `["Go", "SQL"]`,
			"Generate exactly": `[
				{"question_text": "Q1", "question_type": "true_false", "correct_answer": "true", "knowledge_area": 0},
				{"question_text": "Q2", "question_type": "true_false", "correct_answer": "false", "knowledge_area": 0},
				{"question_text": "Q3", "question_type": "true_false", "correct_answer": "true", "knowledge_area": 1},
				{"question_text": "Q4", "question_type": "true_false", "correct_answer": "true", "knowledge_area": 1}
			]`,
			"improvement analysis":          "Work on SQL.",
			"Create a single learning note": "## Note\n\nStudy this. [Docs](https://example.com/docs)",
			"open-ended interview questions": `["Describe a system you designed.", "Why Go?"]`,
		},
	}
}

func submitJD(t *testing.T, svc *Service, userID uuid.UUID) *types.Preparation {
	t.Helper()
	_, prep, err := svc.SubmitJD(context.Background(), userID, JDInput{Text: "We need a Go backend engineer for payments."})
	require.NoError(t, err)
	return prep
}

func TestSubmitJDCreatesPreparation(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, workflowClient(), nil, nil, 10)
	userID := uuid.New()

	jdAnalysis, prep, err := svc.SubmitJD(context.Background(), userID, JDInput{Text: "We need a Go backend engineer."})
	require.NoError(t, err)

	assert.Equal(t, types.StatusMemoryScanReady, prep.Status)
	assert.Equal(t, []string{"Go", "SQL"}, prep.KnowledgeAreas)
	assert.Equal(t, jdAnalysis.ID, prep.AnalysisID)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, jdAnalysis.Requirements.SkillNames())
}

func TestSubmitJDDegradedBackendStillCreates(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, llm.Unavailable(), nil, nil, 10)
	userID := uuid.New()

	jdAnalysis, prep, err := svc.SubmitJD(context.Background(), userID, JDInput{Text: "We need a Go backend engineer."})
	require.NoError(t, err)

	assert.True(t, jdAnalysis.Requirements.IsEmpty())
	assert.Equal(t, types.StatusMemoryScanReady, prep.Status)
	// Empty extraction falls through to the default area triad.
	assert.Equal(t, []string{"Core concepts", "Technical skills", "Best practices"}, prep.KnowledgeAreas)
}

func TestSubmitJDOntoAdvancedPreparationRejected(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, workflowClient(), nil, nil, 10)
	userID := uuid.New()
	prep := submitJD(t, svc, userID)

	_, _, err := svc.SubmitJD(context.Background(), userID, JDInput{Text: "Another JD.", PreparationID: &prep.ID})
	var invalid *ErrInvalidState
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, types.StatusMemoryScanReady, invalid.Status)
}

func TestDiagnosticQuestionsGeneratedOnceAndCached(t *testing.T) {
	store := newMemStore()
	client := workflowClient()
	svc := NewService(store, client, nil, nil, 10)
	userID := uuid.New()
	prep := submitJD(t, svc, userID)

	first, err := svc.DiagnosticQuestions(context.Background(), userID, prep.ID, scan.SourceAuto)
	require.NoError(t, err)
	require.Len(t, first, 4)
	// Correct answers never reach the client projection.
	for _, q := range first {
		assert.NotEmpty(t, q.ID)
		assert.NotEmpty(t, q.Text)
	}

	callsAfterFirst := client.CallCount()
	second, err := svc.DiagnosticQuestions(context.Background(), userID, prep.ID, scan.SourceAI)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, client.CallCount())
}

func TestDiagnosticQuestionsPrefersWarehouse(t *testing.T) {
	store := newMemStore()
	bank := &fixedBank{}
	for i := 0; i < 6; i++ {
		bank.questions = append(bank.questions, scan.BankQuestion{
			ID: uuid.NewString(), Text: "Bank Q", Type: types.QuestionTrueFalse,
			CorrectAnswer: "true", Tags: []string{"go"},
		})
	}
	client := workflowClient()
	svc := NewService(store, client, bank, nil, 10)
	userID := uuid.New()
	prep := submitJD(t, svc, userID)
	generationCallsBefore := client.CallCount()

	questions, err := svc.DiagnosticQuestions(context.Background(), userID, prep.ID, scan.SourceAuto)
	require.NoError(t, err)
	assert.Len(t, questions, 6)
	assert.Equal(t, generationCallsBefore, client.CallCount())
}

func TestDiagnosticQuestionsSparseWarehouseFallsBackToAI(t *testing.T) {
	store := newMemStore()
	bank := &fixedBank{questions: []scan.BankQuestion{
		{ID: "b1", Text: "Bank Q", Type: types.QuestionTrueFalse, CorrectAnswer: "true"},
	}}
	svc := NewService(store, workflowClient(), bank, nil, 10)
	userID := uuid.New()
	prep := submitJD(t, svc, userID)

	questions, err := svc.DiagnosticQuestions(context.Background(), userID, prep.ID, scan.SourceAuto)
	require.NoError(t, err)
	require.Len(t, questions, 4)
	assert.Equal(t, "Q1", questions[0].Text)
}

func TestDiagnosticQuestionsEmptyWhenEverythingDegrades(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, llm.Unavailable(), nil, nil, 10)
	userID := uuid.New()
	prep := submitJD(t, svc, userID)

	questions, err := svc.DiagnosticQuestions(context.Background(), userID, prep.ID, scan.SourceAuto)
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestSubmitDiagnostic(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, workflowClient(), nil, nil, 10)
	userID := uuid.New()
	prep := submitJD(t, svc, userID)

	questions, err := svc.DiagnosticQuestions(context.Background(), userID, prep.ID, scan.SourceAuto)
	require.NoError(t, err)
	require.Len(t, questions, 4)

	// Q1 true, Q2 false, Q3 true, Q4 true. Answer three correctly.
	answers := []scan.Answer{
		{QuestionID: questions[0].ID, SelectedAnswer: "true"},
		{QuestionID: questions[1].ID, SelectedAnswer: "true"},
		{QuestionID: questions[2].ID, SelectedAnswer: "true"},
		{QuestionID: questions[3].ID, SelectedAnswer: "true"},
	}
	result, err := svc.SubmitDiagnostic(context.Background(), userID, prep.ID, answers)
	require.NoError(t, err)

	assert.Equal(t, 3, result.CorrectCount)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.InDelta(t, 75.0, result.ScorePercent, 0.001)
	assert.Equal(t, "Work on SQL.", result.Report)

	require.Len(t, result.Mastery, 2)
	assert.Equal(t, "Go", result.Mastery[0].Area)
	assert.Equal(t, 3, result.Mastery[0].Level)
	assert.Equal(t, "SQL", result.Mastery[1].Area)
	assert.Equal(t, 5, result.Mastery[1].Level)

	stored, err := svc.Get(context.Background(), userID, prep.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusMemoryScanDone, stored.Status)
	require.NotNil(t, stored.LastResult)
	assert.Len(t, store.sessions, 1)
	assert.Len(t, store.sessions[0].Answers, 4)
}

func TestSubmitDiagnosticLowScoreStillAdvances(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, workflowClient(), nil, nil, 10)
	userID := uuid.New()
	prep := submitJD(t, svc, userID)

	questions, err := svc.DiagnosticQuestions(context.Background(), userID, prep.ID, scan.SourceAuto)
	require.NoError(t, err)

	answers := make([]scan.Answer, len(questions))
	for i, q := range questions {
		answers[i] = scan.Answer{QuestionID: q.ID, SelectedAnswer: "not even close"}
	}
	result, err := svc.SubmitDiagnostic(context.Background(), userID, prep.ID, answers)
	require.NoError(t, err)
	assert.Zero(t, result.CorrectCount)

	stored, err := svc.Get(context.Background(), userID, prep.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusMemoryScanDone, stored.Status)
}

func TestSubmitDiagnosticWithoutQuestions(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, workflowClient(), nil, nil, 10)
	userID := uuid.New()
	prep := submitJD(t, svc, userID)

	_, err := svc.SubmitDiagnostic(context.Background(), userID, prep.ID, []scan.Answer{{QuestionID: "x", SelectedAnswer: "y"}})
	var invalid *ErrInvalidState
	assert.ErrorAs(t, err, &invalid)
}

func TestResetDiagnosticClearsOnlyResult(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, workflowClient(), nil, nil, 10)
	userID := uuid.New()
	prep := submitJD(t, svc, userID)

	questions, err := svc.DiagnosticQuestions(context.Background(), userID, prep.ID, scan.SourceAuto)
	require.NoError(t, err)
	_, err = svc.SubmitDiagnostic(context.Background(), userID, prep.ID, []scan.Answer{
		{QuestionID: questions[0].ID, SelectedAnswer: "true"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.ResetDiagnostic(context.Background(), userID, prep.ID))

	stored, err := svc.Get(context.Background(), userID, prep.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.LastResult)
	assert.Equal(t, types.StatusMemoryScanDone, stored.Status)
	assert.True(t, stored.HasQuestions())
	assert.Len(t, store.sessions, 1)
}

func TestCreateRoadmap(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, workflowClient(), nil, nil, 10)
	userID := uuid.New()
	prep := submitJD(t, svc, userID)

	questions, err := svc.DiagnosticQuestions(context.Background(), userID, prep.ID, scan.SourceAuto)
	require.NoError(t, err)
	_, err = svc.SubmitDiagnostic(context.Background(), userID, prep.ID, []scan.Answer{
		{QuestionID: questions[0].ID, SelectedAnswer: "true"},
	})
	require.NoError(t, err)

	rm, err := svc.CreateRoadmap(context.Background(), userID, prep.ID)
	require.NoError(t, err)
	require.Len(t, rm.Tasks, 2)
	assert.Equal(t, "Go", rm.Tasks[0].Title)
	assert.Equal(t, "SQL", rm.Tasks[1].Title)
	assert.Equal(t, 1, rm.Tasks[0].DayIndex)
	require.NotEmpty(t, rm.Tasks[0].References)
	assert.Equal(t, "Docs", rm.Tasks[0].References[0].Title)

	stored, err := svc.Get(context.Background(), userID, prep.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusRoadmapReady, stored.Status)
	require.NotNil(t, stored.RoadmapID)
	assert.Equal(t, rm.ID, *stored.RoadmapID)

	fetched, err := svc.Roadmap(context.Background(), userID, prep.ID)
	require.NoError(t, err)
	assert.Equal(t, rm.ID, fetched.ID)
}

func TestCreateRoadmapRequiresScanResult(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, workflowClient(), nil, nil, 10)
	userID := uuid.New()
	prep := submitJD(t, svc, userID)

	_, err := svc.CreateRoadmap(context.Background(), userID, prep.ID)
	var invalid *ErrInvalidState
	assert.ErrorAs(t, err, &invalid)
}

func TestCreateRoadmapOnlyOnce(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, workflowClient(), nil, nil, 10)
	userID := uuid.New()
	prep := submitJD(t, svc, userID)

	questions, err := svc.DiagnosticQuestions(context.Background(), userID, prep.ID, scan.SourceAuto)
	require.NoError(t, err)
	_, err = svc.SubmitDiagnostic(context.Background(), userID, prep.ID, []scan.Answer{
		{QuestionID: questions[0].ID, SelectedAnswer: "true"},
	})
	require.NoError(t, err)
	_, err = svc.CreateRoadmap(context.Background(), userID, prep.ID)
	require.NoError(t, err)

	_, err = svc.CreateRoadmap(context.Background(), userID, prep.ID)
	var invalid *ErrInvalidState
	assert.ErrorAs(t, err, &invalid)
}

func TestRehearsalQuestionsAvailableBeforeScan(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, workflowClient(), nil, nil, 10)
	userID := uuid.New()
	prep := submitJD(t, svc, userID)

	questions, err := svc.RehearsalQuestions(context.Background(), userID, prep.ID, 5)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "Describe a system you designed.", questions[0].Text)
}

func TestRehearsalQuestionsNeverCached(t *testing.T) {
	store := newMemStore()
	client := workflowClient()
	svc := NewService(store, client, nil, nil, 10)
	userID := uuid.New()
	prep := submitJD(t, svc, userID)

	_, err := svc.RehearsalQuestions(context.Background(), userID, prep.ID, 5)
	require.NoError(t, err)
	calls := client.CallCount()
	_, err = svc.RehearsalQuestions(context.Background(), userID, prep.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, calls+1, client.CallCount())
}

func TestOwnershipEnforced(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, workflowClient(), nil, nil, 10)
	owner := uuid.New()
	stranger := uuid.New()
	prep := submitJD(t, svc, owner)

	_, err := svc.Get(context.Background(), stranger, prep.ID)
	var notFound *ErrNotFound
	assert.ErrorAs(t, err, &notFound)

	_, err = svc.DiagnosticQuestions(context.Background(), stranger, prep.ID, scan.SourceAuto)
	assert.Error(t, err)
}

func TestListByUser(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, workflowClient(), nil, nil, 10)
	userID := uuid.New()
	submitJD(t, svc, userID)
	submitJD(t, svc, userID)

	preps, err := svc.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, preps, 2)
}
