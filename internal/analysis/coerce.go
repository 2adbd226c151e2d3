package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tuanngo/preppath/internal/types"
)

// rawRequirements mirrors the extractor response with loosely-typed lists so
// entries that arrive as bare strings instead of objects still coerce.
type rawRequirements struct {
	Skills   []json.RawMessage `json:"skills"`
	Domains  []json.RawMessage `json:"domains"`
	Keywords []json.RawMessage `json:"keywords"`
	Summary  string            `json:"requirements_summary"`
	Meta     *types.JobMeta    `json:"meta"`
	Fit      json.RawMessage   `json:"profile_fit"`
}

// CoerceRequirements parses an extractor response into ExtractedRequirements.
// List entries may be objects or bare strings; entries with no name after
// coercion are dropped. A profile_fit level outside [1,5] drops the estimate.
func CoerceRequirements(jsonText string) (*types.ExtractedRequirements, error) {
	var raw rawRequirements
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse extractor response: %w", err)
	}

	result := &types.ExtractedRequirements{
		Summary: strings.TrimSpace(raw.Summary),
		Meta:    raw.Meta,
	}

	for _, entry := range raw.Skills {
		if skill, ok := coerceSkill(entry); ok {
			result.Skills = append(result.Skills, skill)
		}
	}
	for _, entry := range raw.Domains {
		if domain, ok := coerceDomain(entry); ok {
			result.Domains = append(result.Domains, domain)
		}
	}
	for _, entry := range raw.Keywords {
		if keyword, ok := coerceKeyword(entry); ok {
			result.Keywords = append(result.Keywords, keyword)
		}
	}

	result.Fit = coerceFit(raw.Fit)
	return result, nil
}

// coerceFit parses the profile fit estimate on its own so a malformed fit
// (non-numeric level, wrong shape) drops only the estimate, not the rest of
// the extraction. Levels outside [1,5] are dropped too.
func coerceFit(entry json.RawMessage) *types.ProfileFit {
	if len(entry) == 0 {
		return nil
	}
	var fit types.ProfileFit
	if err := json.Unmarshal(entry, &fit); err != nil {
		return nil
	}
	if fit.Level < 1 || fit.Level > 5 {
		return nil
	}
	return &fit
}

func coerceSkill(entry json.RawMessage) (types.SkillRequirement, bool) {
	if name, ok := asString(entry); ok {
		return types.SkillRequirement{Name: name}, name != ""
	}
	var skill types.SkillRequirement
	if err := json.Unmarshal(entry, &skill); err != nil {
		return types.SkillRequirement{}, false
	}
	skill.Name = strings.TrimSpace(skill.Name)
	return skill, skill.Name != ""
}

func coerceDomain(entry json.RawMessage) (types.DomainRequirement, bool) {
	if name, ok := asString(entry); ok {
		return types.DomainRequirement{Name: name}, name != ""
	}
	var domain types.DomainRequirement
	if err := json.Unmarshal(entry, &domain); err != nil {
		return types.DomainRequirement{}, false
	}
	domain.Name = strings.TrimSpace(domain.Name)
	return domain, domain.Name != ""
}

func coerceKeyword(entry json.RawMessage) (types.KeywordRequirement, bool) {
	if term, ok := asString(entry); ok {
		return types.KeywordRequirement{Term: term}, term != ""
	}
	var keyword types.KeywordRequirement
	if err := json.Unmarshal(entry, &keyword); err != nil {
		return types.KeywordRequirement{}, false
	}
	keyword.Term = strings.TrimSpace(keyword.Term)
	return keyword, keyword.Term != ""
}

// asString reports whether the raw entry is a bare JSON string, returning its
// trimmed value when it is.
func asString(entry json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(entry, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}
