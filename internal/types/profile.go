package types

import "fmt"

// CandidateProfile carries the optional candidate context fed into
// extraction, area derivation, and question generation prompts.
type CandidateProfile struct {
	Role              string `json:"role,omitempty"`
	ExperienceYears   int    `json:"experience_years,omitempty"`
	SkillsSummary     string `json:"skills_summary,omitempty"`
	CurrentCompany    string `json:"current_company,omitempty"`
	PreferredLanguage string `json:"preferred_language,omitempty"`
}

// Describe renders the profile as a short prompt fragment.
func (p *CandidateProfile) Describe() string {
	if p == nil {
		return "Role: not set. Experience: 0 years."
	}
	role := p.Role
	if role == "" {
		role = "not set"
	}
	out := fmt.Sprintf("Role: %s. Experience: %d years.", role, p.ExperienceYears)
	if p.SkillsSummary != "" {
		out += " Skills: " + p.SkillsSummary + "."
	}
	if p.CurrentCompany != "" {
		out += " Current company: " + p.CurrentCompany + "."
	}
	return out
}
