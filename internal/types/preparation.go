package types

import (
	"time"

	"github.com/google/uuid"
)

// Status is the preparation workflow state. Transitions are strictly forward
// and validated against the transition table below; self-check (rehearsal) is
// a logical phase available any time after JD submission, not a state.
type Status string

// Preparation workflow states
const (
	StatusJDPending       Status = "jd_pending"
	StatusMemoryScanReady Status = "memory_scan_ready"
	StatusMemoryScanDone  Status = "memory_scan_done"
	StatusRoadmapReady    Status = "roadmap_ready"
)

// transitions is the closed set of allowed forward moves.
var transitions = map[Status][]Status{
	StatusJDPending:       {StatusMemoryScanReady},
	StatusMemoryScanReady: {StatusMemoryScanDone},
	StatusMemoryScanDone:  {StatusRoadmapReady},
	StatusRoadmapReady:    {},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AtLeast reports whether s has reached the given stage in workflow order.
func (s Status) AtLeast(other Status) bool {
	return statusOrder(s) >= statusOrder(other)
}

func statusOrder(s Status) int {
	switch s {
	case StatusJDPending:
		return 0
	case StatusMemoryScanReady:
		return 1
	case StatusMemoryScanDone:
		return 2
	case StatusRoadmapReady:
		return 3
	default:
		return -1
	}
}

// DiagnosticResult is the outcome of one scored memory-scan submission.
type DiagnosticResult struct {
	SessionID      uuid.UUID        `json:"session_id"`
	ScorePercent   float64          `json:"score_percent"`
	CorrectCount   int              `json:"correct_count"`
	TotalQuestions int              `json:"total_questions"`
	PerQuestion    []QuestionResult `json:"per_question"`
	Mastery        []AreaMastery    `json:"mastery"`
	Report         string           `json:"report,omitempty"`
	TakenAt        time.Time        `json:"taken_at"`
}

// Preparation is the workflow entity: one interview preparation run through
// JD analysis, memory scan, roadmap, and self-check. It owns exactly one
// JDAnalysis and at most one Roadmap. KnowledgeAreas, once set, is the single
// source of truth for question tagging, mastery aggregation, roadmap titles,
// and rehearsal coverage. Questions are generated lazily on first read and
// then frozen.
type Preparation struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	AnalysisID     uuid.UUID         `json:"jd_analysis_id"`
	Status         Status            `json:"status"`
	KnowledgeAreas []string          `json:"knowledge_areas"`
	Questions      []Question        `json:"-"`
	LastResult     *DiagnosticResult `json:"last_memory_scan_result,omitempty"`
	RoadmapID      *uuid.UUID        `json:"roadmap_id,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// HasQuestions reports whether the diagnostic set has been generated and cached.
func (p *Preparation) HasQuestions() bool {
	return len(p.Questions) > 0
}
