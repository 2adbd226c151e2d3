package preparation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tuanngo/preppath/internal/analysis"
	"github.com/tuanngo/preppath/internal/areas"
	"github.com/tuanngo/preppath/internal/ingestion"
	"github.com/tuanngo/preppath/internal/llm"
	"github.com/tuanngo/preppath/internal/rehearsal"
	"github.com/tuanngo/preppath/internal/roadmap"
	"github.com/tuanngo/preppath/internal/scan"
	"github.com/tuanngo/preppath/internal/types"
)

// DefaultQuestionLimit is the diagnostic set size when none is configured.
const DefaultQuestionLimit = 10

// JDInput carries one job description in exactly one of three forms: pasted
// text, an uploaded file, or a job posting URL. PreparationID attaches the
// analysis to an existing pending preparation instead of creating one.
type JDInput struct {
	Text          string
	FileContent   []byte
	Filename      string
	URL           string
	UseBrowser    bool
	InterviewDate *time.Time
	PreparationID *uuid.UUID
}

// Service orchestrates the preparation workflow.
type Service struct {
	store     Store
	client    llm.Client
	bank      scan.QuestionBank
	profiles  ProfileProvider
	extractor *analysis.Extractor
	deriver   *areas.Deriver
	limit     int
}

// NewService wires the orchestrator. bank and profiles may be nil; limit <= 0
// falls back to DefaultQuestionLimit.
func NewService(store Store, client llm.Client, bank scan.QuestionBank, profiles ProfileProvider, limit int) *Service {
	if limit <= 0 {
		limit = DefaultQuestionLimit
	}
	return &Service{
		store:     store,
		client:    client,
		bank:      bank,
		profiles:  profiles,
		extractor: analysis.NewExtractor(client),
		deriver:   areas.NewDeriver(client),
		limit:     limit,
	}
}

// SubmitJD ingests a job description, extracts its requirements, derives the
// knowledge areas, and creates (or advances) the preparation into
// memory_scan_ready. Submitting onto a preparation that already holds an
// analysis fails with ErrInvalidState.
func (s *Service) SubmitJD(ctx context.Context, userID uuid.UUID, input JDInput) (*types.JDAnalysis, *types.Preparation, error) {
	prep, err := s.resolvePreparation(ctx, userID, input.PreparationID)
	if err != nil {
		return nil, nil, err
	}

	text, sourceFile, err := s.ingest(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	if text == "" {
		return nil, nil, fmt.Errorf("job description is empty")
	}

	profile, language := s.candidateContext(ctx, userID)

	requirements, err := s.extractor.Extract(ctx, text, analysis.Options{
		Profile:  profile,
		Language: language,
	})
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	jdAnalysis := &types.JDAnalysis{
		ID:            uuid.New(),
		UserID:        userID,
		RawText:       text,
		SourceFile:    sourceFile,
		InterviewDate: input.InterviewDate,
		Requirements:  *requirements,
		CreatedAt:     now,
	}
	if err := s.store.CreateAnalysis(ctx, jdAnalysis); err != nil {
		return nil, nil, err
	}

	areaList := s.deriver.Derive(ctx, requirements, profile, language)

	if prep == nil {
		prep = &types.Preparation{
			ID:        uuid.New(),
			UserID:    userID,
			Status:    types.StatusJDPending,
			CreatedAt: now,
		}
		prep.AnalysisID = jdAnalysis.ID
		prep.KnowledgeAreas = areaList
		prep.Status = types.StatusMemoryScanReady
		prep.UpdatedAt = now
		if err := s.store.CreatePreparation(ctx, prep); err != nil {
			return nil, nil, err
		}
		return jdAnalysis, prep, nil
	}

	prep.AnalysisID = jdAnalysis.ID
	prep.KnowledgeAreas = areaList
	prep.Status = types.StatusMemoryScanReady
	prep.UpdatedAt = now
	if err := s.store.UpdatePreparation(ctx, prep); err != nil {
		return nil, nil, err
	}
	return jdAnalysis, prep, nil
}

// DiagnosticQuestions returns the preparation's diagnostic set, generating
// and caching it on first read. The cached set is returned untouched on every
// later call regardless of the requested source. Generation runs under the
// store's row lock so concurrent first reads agree on one set.
func (s *Service) DiagnosticQuestions(ctx context.Context, userID, prepID uuid.UUID, source scan.Source) ([]types.DisplayQuestion, error) {
	if _, err := s.ownedPreparation(ctx, userID, prepID); err != nil {
		return nil, err
	}

	var display []types.DisplayQuestion
	err := s.store.WithPreparationLock(ctx, prepID, func(ctx context.Context, prep *types.Preparation) error {
		if !prep.Status.AtLeast(types.StatusMemoryScanReady) {
			return &ErrInvalidState{Op: "memory scan", Status: prep.Status}
		}
		if prep.HasQuestions() {
			display = scan.ForDisplay(prep.Questions)
			return nil
		}

		questions, err := s.generateQuestions(ctx, prep, source)
		if err != nil {
			return err
		}
		prep.Questions = questions
		prep.UpdatedAt = time.Now().UTC()
		display = scan.ForDisplay(questions)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return display, nil
}

// generateQuestions applies the sourcing policy: warehouse first, AI when the
// warehouse yields fewer than scan.MinWarehouseMatches in auto mode. An empty
// result is surfaced as an empty set, not an error.
func (s *Service) generateQuestions(ctx context.Context, prep *types.Preparation, source scan.Source) ([]types.Question, error) {
	jdAnalysis, err := s.store.GetAnalysis(ctx, prep.AnalysisID)
	if err != nil {
		return nil, err
	}
	requirements := &jdAnalysis.Requirements
	profile, language := s.candidateContext(ctx, prep.UserID)

	var questions []types.Question
	if source != scan.SourceAI {
		questions, err = scan.SampleWarehouse(ctx, s.bank, requirements, s.limit)
		if err != nil {
			log.Printf("warehouse sampling failed for %s: %v", prep.ID, err)
			questions = nil
		}
	}
	if source == scan.SourceWarehouse {
		return questions, nil
	}
	if len(questions) < scan.MinWarehouseMatches {
		questions = scan.Generate(ctx, s.client, requirements, prep.KnowledgeAreas, profile, s.limit, language)
	}
	return questions, nil
}

// SubmitDiagnostic scores an answer set against the cached questions, stores
// the session with its answer rows, records the result on the preparation,
// and moves a first submission into memory_scan_done.
func (s *Service) SubmitDiagnostic(ctx context.Context, userID, prepID uuid.UUID, answers []scan.Answer) (*types.DiagnosticResult, error) {
	prep, err := s.ownedPreparation(ctx, userID, prepID)
	if err != nil {
		return nil, err
	}
	if !prep.HasQuestions() {
		return nil, &ErrInvalidState{Op: "memory scan submission", Status: prep.Status}
	}

	outcome := scan.Score(prep.Questions, answers)

	perQuestion := correctnessByPosition(prep.Questions, outcome.PerQuestion)
	mastery := scan.AggregateMastery(prep.Questions, perQuestion, prep.KnowledgeAreas)

	jdAnalysis, err := s.store.GetAnalysis(ctx, prep.AnalysisID)
	if err != nil {
		return nil, err
	}
	_, language := s.candidateContext(ctx, userID)
	report := scan.BuildReport(ctx, s.client, &jdAnalysis.Requirements, prep.Questions, perQuestion, language)

	session := &AssessmentSession{
		ID:             uuid.New(),
		PreparationID:  prep.ID,
		UserID:         userID,
		ScorePercent:   outcome.ScorePercent,
		CorrectCount:   outcome.CorrectCount,
		TotalQuestions: outcome.TotalQuestions,
		Report:         report,
		TakenAt:        time.Now().UTC(),
		Answers:        outcome.PerQuestion,
	}
	if err := s.store.SaveAssessment(ctx, session); err != nil {
		return nil, err
	}

	result := &types.DiagnosticResult{
		SessionID:      session.ID,
		ScorePercent:   outcome.ScorePercent,
		CorrectCount:   outcome.CorrectCount,
		TotalQuestions: outcome.TotalQuestions,
		PerQuestion:    outcome.PerQuestion,
		Mastery:        mastery,
		Report:         report,
		TakenAt:        session.TakenAt,
	}

	prep.LastResult = result
	if prep.Status.CanTransition(types.StatusMemoryScanDone) {
		prep.Status = types.StatusMemoryScanDone
	}
	prep.UpdatedAt = session.TakenAt
	if err := s.store.UpdatePreparation(ctx, prep); err != nil {
		return nil, err
	}
	return result, nil
}

// ResetDiagnostic clears the last scan result so the quiz can be retaken.
// The question set and the status both stay as they are.
func (s *Service) ResetDiagnostic(ctx context.Context, userID, prepID uuid.UUID) error {
	prep, err := s.ownedPreparation(ctx, userID, prepID)
	if err != nil {
		return err
	}
	prep.LastResult = nil
	prep.UpdatedAt = time.Now().UTC()
	return s.store.UpdatePreparation(ctx, prep)
}

// CreateRoadmap synthesizes the study roadmap from the preparation's
// knowledge areas. It requires at least one scored scan submission, runs at
// most once per preparation, and moves the preparation into roadmap_ready.
func (s *Service) CreateRoadmap(ctx context.Context, userID, prepID uuid.UUID) (*types.Roadmap, error) {
	prep, err := s.ownedPreparation(ctx, userID, prepID)
	if err != nil {
		return nil, err
	}
	if prep.LastResult == nil {
		return nil, &ErrInvalidState{Op: "roadmap creation", Status: prep.Status}
	}
	if prep.RoadmapID != nil {
		return nil, &ErrInvalidState{Op: "roadmap creation", Status: prep.Status}
	}

	jdAnalysis, err := s.store.GetAnalysis(ctx, prep.AnalysisID)
	if err != nil {
		return nil, err
	}
	requirements := &jdAnalysis.Requirements
	profile, language := s.candidateContext(ctx, userID)

	areaList := prep.KnowledgeAreas
	if len(areaList) == 0 {
		areaList = s.deriver.DeriveFromResults(ctx, requirements, profile, language, prep.LastResult.PerQuestion)
	}

	items := roadmap.Synthesize(ctx, s.client, areaList, requirements, language)

	now := time.Now().UTC()
	rm := &types.Roadmap{
		ID:            uuid.New(),
		UserID:        userID,
		PreparationID: prep.ID,
		AnalysisID:    prep.AnalysisID,
		InterviewDate: jdAnalysis.InterviewDate,
		CreatedAt:     now,
	}
	for i, item := range items {
		rm.Tasks = append(rm.Tasks, types.DailyTask{
			ID:         uuid.New(),
			RoadmapID:  rm.ID,
			DayIndex:   i + 1,
			Title:      item.Area,
			Content:    item.Content,
			References: item.References,
			SortOrder:  i,
			CreatedAt:  now,
		})
	}
	if err := s.store.CreateRoadmap(ctx, rm); err != nil {
		return nil, err
	}

	prep.RoadmapID = &rm.ID
	if prep.Status.CanTransition(types.StatusRoadmapReady) {
		prep.Status = types.StatusRoadmapReady
	}
	prep.UpdatedAt = now
	if err := s.store.UpdatePreparation(ctx, prep); err != nil {
		return nil, err
	}
	return rm, nil
}

// RehearsalQuestions generates a fresh batch of open-ended practice
// questions. Available any time after JD submission; nothing is cached.
func (s *Service) RehearsalQuestions(ctx context.Context, userID, prepID uuid.UUID, limit int) ([]types.RehearsalQuestion, error) {
	prep, err := s.ownedPreparation(ctx, userID, prepID)
	if err != nil {
		return nil, err
	}
	if !prep.Status.AtLeast(types.StatusMemoryScanReady) {
		return nil, &ErrInvalidState{Op: "self-check", Status: prep.Status}
	}

	jdAnalysis, err := s.store.GetAnalysis(ctx, prep.AnalysisID)
	if err != nil {
		return nil, err
	}
	profile, language := s.candidateContext(ctx, userID)
	return rehearsal.Generate(ctx, s.client, &jdAnalysis.Requirements, prep.KnowledgeAreas, profile, limit, language), nil
}

// Get returns an owned preparation.
func (s *Service) Get(ctx context.Context, userID, prepID uuid.UUID) (*types.Preparation, error) {
	return s.ownedPreparation(ctx, userID, prepID)
}

// ListByUser returns the user's preparations.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]types.Preparation, error) {
	return s.store.ListPreparationsByUser(ctx, userID)
}

// Roadmap returns the preparation's roadmap, if created.
func (s *Service) Roadmap(ctx context.Context, userID, prepID uuid.UUID) (*types.Roadmap, error) {
	prep, err := s.ownedPreparation(ctx, userID, prepID)
	if err != nil {
		return nil, err
	}
	if prep.RoadmapID == nil {
		return nil, &ErrNotFound{Kind: "roadmap", ID: prepID.String()}
	}
	return s.store.GetRoadmap(ctx, *prep.RoadmapID)
}

// Analysis returns the preparation's JD analysis.
func (s *Service) Analysis(ctx context.Context, userID, prepID uuid.UUID) (*types.JDAnalysis, error) {
	prep, err := s.ownedPreparation(ctx, userID, prepID)
	if err != nil {
		return nil, err
	}
	return s.store.GetAnalysis(ctx, prep.AnalysisID)
}

// ownedPreparation loads a preparation and enforces ownership. A preparation
// owned by another user is reported as not found, not as forbidden.
func (s *Service) ownedPreparation(ctx context.Context, userID, prepID uuid.UUID) (*types.Preparation, error) {
	prep, err := s.store.GetPreparation(ctx, prepID)
	if err != nil {
		return nil, err
	}
	if prep == nil || prep.UserID != userID {
		return nil, &ErrNotFound{Kind: "preparation", ID: prepID.String()}
	}
	return prep, nil
}

// resolvePreparation loads the target preparation for a JD submission, or nil
// when a new one should be created. A preparation that already advanced past
// jd_pending cannot take another JD.
func (s *Service) resolvePreparation(ctx context.Context, userID uuid.UUID, prepID *uuid.UUID) (*types.Preparation, error) {
	if prepID == nil {
		return nil, nil
	}
	prep, err := s.ownedPreparation(ctx, userID, *prepID)
	if err != nil {
		return nil, err
	}
	if prep.Status != types.StatusJDPending {
		return nil, &ErrInvalidState{Op: "JD submission", Status: prep.Status}
	}
	return prep, nil
}

// ingest resolves JDInput into cleaned text. URL-sourced pages additionally
// run through backend noise isolation before cleaning.
func (s *Service) ingest(ctx context.Context, input JDInput) (text, sourceFile string, err error) {
	switch {
	case input.URL != "":
		raw, err := ingestion.FromURL(ctx, input.URL, ingestion.URLOptions{UseBrowser: input.UseBrowser})
		if err != nil {
			return "", "", err
		}
		isolated, err := s.extractor.IsolateJobContent(ctx, raw, input.URL)
		if err != nil {
			return "", "", err
		}
		return ingestion.CleanText(isolated), input.URL, nil
	case len(input.FileContent) > 0:
		text, err := ingestion.FromFile(input.FileContent, input.Filename)
		if err != nil {
			return "", "", err
		}
		return text, input.Filename, nil
	default:
		return ingestion.FromText(input.Text), "", nil
	}
}

// candidateContext resolves the profile and preferred language for prompts.
func (s *Service) candidateContext(ctx context.Context, userID uuid.UUID) (*types.CandidateProfile, string) {
	if s.profiles == nil {
		return nil, ""
	}
	profile, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		log.Printf("profile lookup failed for %s: %v", userID, err)
		return nil, ""
	}
	if profile == nil {
		return nil, ""
	}
	return profile, profile.PreferredLanguage
}

// correctnessByPosition aligns scored answers to the served question order for
// mastery aggregation. Questions without a submitted answer count as wrong.
func correctnessByPosition(questions []types.Question, results []types.QuestionResult) []bool {
	byID := make(map[string]bool, len(results))
	for _, r := range results {
		if r.Correct {
			byID[r.QuestionID] = true
		}
	}
	perQuestion := make([]bool, len(questions))
	for i, q := range questions {
		perQuestion[i] = byID[q.ID]
	}
	return perQuestion
}
