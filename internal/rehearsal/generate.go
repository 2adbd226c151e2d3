// Package rehearsal generates open-ended questions for out-loud interview
// practice. Rehearsal is stateless: questions are never cached or scored, and
// every call produces a fresh batch.
package rehearsal

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/tuanngo/preppath/internal/llm"
	"github.com/tuanngo/preppath/internal/prompts"
	"github.com/tuanngo/preppath/internal/types"
)

// DefaultLimit is the batch size when the caller does not specify one.
const DefaultLimit = 10

// Generate produces up to limit open-ended rehearsal questions mixing
// technical, behavioral, and role-specific framing. When areas are provided
// the prompt steers toward one or two questions per area. Backend failure
// yields an empty slice and no error.
func Generate(ctx context.Context, client llm.Client, requirements *types.ExtractedRequirements, areaList []string, profile *types.CandidateProfile, limit int, language string) []types.RehearsalQuestion {
	if limit <= 0 {
		limit = DefaultLimit
	}

	template, err := prompts.Get("rehearsal.json", "generate-questions")
	if err != nil {
		log.Printf("rehearsal prompt missing: %v", err)
		return nil
	}

	areasLine := ""
	if len(areaList) > 0 {
		areasLine = "Cover these knowledge areas with 1-2 questions each: " + strings.Join(areaList, ", ") + "."
	}

	prompt := prompts.Format(template, map[string]string{
		"Count":    fmt.Sprintf("%d", limit),
		"Context":  describeContext(requirements),
		"Profile":  profile.Describe(),
		"Areas":    areasLine,
		"Language": prompts.LanguageInstruction(language),
	})

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("rehearsal generation degraded: %v", err)
		return nil
	}

	var texts []string
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &texts); err != nil {
		log.Printf("rehearsal generation returned non-array response: %v", err)
		return nil
	}

	questions := make([]types.RehearsalQuestion, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		questions = append(questions, types.RehearsalQuestion{
			ID:   uuid.NewString(),
			Text: text,
		})
		if len(questions) == limit {
			break
		}
	}
	return questions
}

func describeContext(requirements *types.ExtractedRequirements) string {
	if requirements == nil || requirements.IsEmpty() {
		return "General technical interview."
	}

	var parts []string
	if len(requirements.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(requirements.SkillNames(), ", ")+".")
	}
	if len(requirements.Domains) > 0 {
		parts = append(parts, "Domains: "+strings.Join(requirements.DomainNames(), ", ")+".")
	}
	if requirements.Summary != "" {
		parts = append(parts, requirements.Summary)
	}
	return strings.Join(parts, " ")
}
