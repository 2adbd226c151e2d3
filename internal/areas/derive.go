// Package areas derives the knowledge-area list for a preparation. The list
// is the backbone shared by the diagnostic quiz, mastery aggregation, the
// roadmap, and rehearsal questions, so it is derived once and stored.
package areas

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/tuanngo/preppath/internal/llm"
	"github.com/tuanngo/preppath/internal/prompts"
	"github.com/tuanngo/preppath/internal/types"
)

// MaxAreas caps the derived list no matter how many topics the backend
// returns; every downstream stage (quiz tagging, mastery, rehearsal) keys
// off this list.
const MaxAreas = 8

// MaxResultLines caps how many quiz answers feed the re-derivation prompt.
const MaxResultLines = 20

// maxResultLineLength truncates each quoted question in the results block.
const maxResultLineLength = 200

// DefaultAreas is the last-resort area list when neither the backend nor the
// extracted requirements yield anything.
var DefaultAreas = []string{"Core concepts", "Technical skills", "Best practices"}

// Deriver produces knowledge-area lists from extracted requirements.
type Deriver struct {
	client llm.Client
}

// NewDeriver creates a deriver backed by the given client.
func NewDeriver(client llm.Client) *Deriver {
	return &Deriver{client: client}
}

// Derive returns 3-8 knowledge areas for the requirements. When the backend
// degrades or returns nothing usable, the areas fall back to the top extracted
// skills, domains, and keywords, and finally to DefaultAreas.
func (d *Deriver) Derive(ctx context.Context, requirements *types.ExtractedRequirements, profile *types.CandidateProfile, language string) []string {
	template, err := prompts.Get("areas.json", "derive-areas")
	if err != nil {
		log.Printf("area derivation prompt missing: %v", err)
		return FallbackAreas(requirements)
	}

	prompt := prompts.Format(template, map[string]string{
		"Requirements": describeRequirements(requirements),
		"Profile":      profile.Describe(),
		"Language":     prompts.LanguageInstruction(language),
	})

	derived := d.generateAreaList(ctx, prompt)
	if len(derived) > 0 {
		return derived
	}
	return FallbackAreas(requirements)
}

// DeriveFromResults re-derives areas after a diagnostic quiz, steering the
// backend toward topics the candidate answered incorrectly. Falls back the
// same way Derive does.
func (d *Deriver) DeriveFromResults(ctx context.Context, requirements *types.ExtractedRequirements, profile *types.CandidateProfile, language string, results []types.QuestionResult) []string {
	template, err := prompts.Get("areas.json", "derive-areas-from-results")
	if err != nil {
		log.Printf("area re-derivation prompt missing: %v", err)
		return FallbackAreas(requirements)
	}

	prompt := prompts.Format(template, map[string]string{
		"Requirements": describeRequirements(requirements),
		"Profile":      profile.Describe(),
		"Language":     prompts.LanguageInstruction(language),
		"Results":      FormatResults(results),
	})

	derived := d.generateAreaList(ctx, prompt)
	if len(derived) > 0 {
		return derived
	}
	return FallbackAreas(requirements)
}

// generateAreaList runs the prompt and parses the response as a JSON array of
// strings. Any failure returns nil so the caller can fall back.
func (d *Deriver) generateAreaList(ctx context.Context, prompt string) []string {
	raw, err := d.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("area derivation degraded: %v", err)
		return nil
	}

	var names []string
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &names); err != nil {
		log.Printf("area derivation returned non-array response: %v", err)
		return nil
	}
	return head(Dedup(names), MaxAreas)
}

// FallbackAreas builds the area list from the extracted requirements when the
// backend cannot: top 4 skills, top 3 domains, top 2 keywords, deduplicated.
// Empty requirements yield DefaultAreas.
func FallbackAreas(requirements *types.ExtractedRequirements) []string {
	if requirements == nil || requirements.IsEmpty() {
		return append([]string(nil), DefaultAreas...)
	}

	var candidates []string
	candidates = append(candidates, head(requirements.SkillNames(), 4)...)
	candidates = append(candidates, head(requirements.DomainNames(), 3)...)
	candidates = append(candidates, head(requirements.KeywordTerms(), 2)...)

	deduped := Dedup(candidates)
	if len(deduped) == 0 {
		return append([]string(nil), DefaultAreas...)
	}
	return deduped
}

// Dedup drops empty entries and case-insensitive duplicates, keeping first
// occurrences in order.
func Dedup(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// FormatResults renders per-question quiz outcomes as the Correct/Wrong block
// the re-derivation prompt expects. Only the first MaxResultLines answers are
// included and each question is truncated to keep the prompt bounded.
func FormatResults(results []types.QuestionResult) string {
	if len(results) > MaxResultLines {
		results = results[:MaxResultLines]
	}

	lines := make([]string, 0, len(results))
	for _, r := range results {
		verdict := "Wrong"
		if r.Correct {
			verdict = "Correct"
		}
		question := r.QuestionText
		if len(question) > maxResultLineLength {
			question = question[:maxResultLineLength]
		}
		lines = append(lines, fmt.Sprintf("- %q: %s", question, verdict))
	}
	return strings.Join(lines, "\n")
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// describeRequirements renders requirements as a compact prompt fragment.
func describeRequirements(requirements *types.ExtractedRequirements) string {
	if requirements == nil || requirements.IsEmpty() {
		return "No structured requirements available."
	}

	var sb strings.Builder
	if len(requirements.Skills) > 0 {
		sb.WriteString("Skills: " + strings.Join(requirements.SkillNames(), ", ") + ". ")
	}
	if len(requirements.Domains) > 0 {
		sb.WriteString("Domains: " + strings.Join(requirements.DomainNames(), ", ") + ". ")
	}
	if len(requirements.Keywords) > 0 {
		sb.WriteString("Keywords: " + strings.Join(requirements.KeywordTerms(), ", ") + ". ")
	}
	if requirements.Summary != "" {
		sb.WriteString("Summary: " + requirements.Summary)
	}
	return strings.TrimSpace(sb.String())
}
