package types

import (
	"time"

	"github.com/google/uuid"
)

// Roadmap is an ordered set of study items created once per preparation after
// at least one scored memory-scan submission exists.
type Roadmap struct {
	ID            uuid.UUID   `json:"id"`
	UserID        uuid.UUID   `json:"user_id"`
	PreparationID uuid.UUID   `json:"preparation_id"`
	AnalysisID    uuid.UUID   `json:"jd_analysis_id"`
	InterviewDate *time.Time  `json:"interview_date,omitempty"`
	Tasks         []DailyTask `json:"tasks"`
	CreatedAt     time.Time   `json:"created_at"`
}

// DailyTask is a single study item: the title is the knowledge area name, the
// content is a markdown learning note, and References are links parsed out of
// the content independent of the prose.
type DailyTask struct {
	ID          uuid.UUID   `json:"id"`
	RoadmapID   uuid.UUID   `json:"roadmap_id"`
	DayIndex    int         `json:"day_index"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	References  []Reference `json:"references,omitempty"`
	SortOrder   int         `json:"sort_order"`
	IsCompleted bool        `json:"is_completed"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Reference is one study link extracted from a roadmap note.
type Reference struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
