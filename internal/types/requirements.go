// Package types provides type definitions for structured data used throughout the preparation pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// ExtractedRequirements is the structured view of a job description produced
// by the requirement extractor.
type ExtractedRequirements struct {
	Skills   []SkillRequirement   `json:"skills"`
	Domains  []DomainRequirement  `json:"domains"`
	Keywords []KeywordRequirement `json:"keywords"`
	Summary  string               `json:"requirements_summary,omitempty"`
	Meta     *JobMeta             `json:"meta,omitempty"`
	Fit      *ProfileFit          `json:"profile_fit,omitempty"`
}

// SkillRequirement represents one required skill with optional qualifiers
type SkillRequirement struct {
	Name        string `json:"name"`
	Level       string `json:"level,omitempty"`
	Constraints string `json:"constraints,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// DomainRequirement represents a domain or area the role operates in
type DomainRequirement struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// KeywordRequirement represents a standalone keyword worth preparing for
type KeywordRequirement struct {
	Term    string `json:"term"`
	Context string `json:"context,omitempty"`
}

// JobMeta holds posting metadata when the extractor can recover it
type JobMeta struct {
	Company        string `json:"company,omitempty"`
	Title          string `json:"title,omitempty"`
	Location       string `json:"location,omitempty"`
	Dates          string `json:"dates,omitempty"`
	EmploymentType string `json:"employment_type,omitempty"`
}

// ProfileFit is the extractor's estimate of how well the candidate profile
// matches the posting. Level is clamped to [1,5]; a nil ProfileFit means the
// estimate could not be made.
type ProfileFit struct {
	Level   int    `json:"level"`
	Label   string `json:"label,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// SkillNames returns the skill names in order.
func (r *ExtractedRequirements) SkillNames() []string {
	names := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		names = append(names, s.Name)
	}
	return names
}

// DomainNames returns the domain names in order.
func (r *ExtractedRequirements) DomainNames() []string {
	names := make([]string, 0, len(r.Domains))
	for _, d := range r.Domains {
		names = append(names, d.Name)
	}
	return names
}

// KeywordTerms returns the keyword terms in order.
func (r *ExtractedRequirements) KeywordTerms() []string {
	terms := make([]string, 0, len(r.Keywords))
	for _, k := range r.Keywords {
		terms = append(terms, k.Term)
	}
	return terms
}

// IsEmpty reports whether nothing at all was extracted.
func (r *ExtractedRequirements) IsEmpty() bool {
	return len(r.Skills) == 0 && len(r.Domains) == 0 && len(r.Keywords) == 0
}

// JDAnalysis owns the cleaned JD text and its extracted requirements.
// Created once per preparation; mutated only by the requirement extractor,
// immutable afterward except for the interview-date annotation.
type JDAnalysis struct {
	ID            uuid.UUID             `json:"id"`
	UserID        uuid.UUID             `json:"user_id"`
	RawText       string                `json:"raw_text"`
	SourceFile    string                `json:"source_file,omitempty"`
	InterviewDate *time.Time            `json:"interview_date,omitempty"`
	Requirements  ExtractedRequirements `json:"extracted_requirements"`
	CreatedAt     time.Time             `json:"created_at"`
}
