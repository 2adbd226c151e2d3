package preparation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tuanngo/preppath/internal/types"
)

// AssessmentSession is one persisted memory-scan submission with its answer
// rows. Past sessions survive a diagnostic reset; only the preparation's
// LastResult pointer is cleared.
type AssessmentSession struct {
	ID             uuid.UUID
	PreparationID  uuid.UUID
	UserID         uuid.UUID
	ScorePercent   float64
	CorrectCount   int
	TotalQuestions int
	Report         string
	TakenAt        time.Time
	Answers        []types.QuestionResult
}

// Store persists the preparation workflow entities.
type Store interface {
	CreateAnalysis(ctx context.Context, analysis *types.JDAnalysis) error
	GetAnalysis(ctx context.Context, id uuid.UUID) (*types.JDAnalysis, error)

	CreatePreparation(ctx context.Context, prep *types.Preparation) error
	GetPreparation(ctx context.Context, id uuid.UUID) (*types.Preparation, error)
	UpdatePreparation(ctx context.Context, prep *types.Preparation) error
	ListPreparationsByUser(ctx context.Context, userID uuid.UUID) ([]types.Preparation, error)

	// WithPreparationLock runs fn with the preparation row locked, persisting
	// the (possibly mutated) preparation when fn returns nil. It serializes
	// the question-set check-then-write so concurrent first reads cannot
	// generate two different sets.
	WithPreparationLock(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, prep *types.Preparation) error) error

	SaveAssessment(ctx context.Context, session *AssessmentSession) error

	CreateRoadmap(ctx context.Context, roadmap *types.Roadmap) error
	GetRoadmap(ctx context.Context, id uuid.UUID) (*types.Roadmap, error)
}

// ProfileProvider resolves the candidate profile used to personalize prompts.
// A nil provider or a nil profile both mean extraction and generation run
// without candidate context.
type ProfileProvider interface {
	Profile(ctx context.Context, userID uuid.UUID) (*types.CandidateProfile, error)
}
