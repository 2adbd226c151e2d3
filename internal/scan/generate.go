// Package scan implements the memory scan (diagnostic quiz): question
// sourcing from the warehouse or the generation backend, answer scoring, and
// per-area mastery aggregation.
package scan

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

// Source selects where diagnostic questions come from.
type Source string

// Question source constants. Auto tries the warehouse first and falls back to
// AI generation when the warehouse yields fewer than MinWarehouseMatches.
const (
	SourceWarehouse Source = "warehouse"
	SourceAI        Source = "ai"
	SourceAuto      Source = "auto"
)

// ParseSource maps a request parameter to a Source, defaulting to auto.
func ParseSource(s string) Source {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceWarehouse:
		return SourceWarehouse
	case SourceAI:
		return SourceAI
	default:
		return SourceAuto
	}
}

// generatedItem mirrors one item of the generation response.
type generatedItem struct {
	Text          string   `json:"question_text"`
	Type          string   `json:"question_type"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correct_answer"`
	AreaIndex     *int     `json:"knowledge_area"`
}

// Generate asks the backend for limit diagnostic questions covering the given
// knowledge areas, roughly limit/len(areas) per area. Items are parsed one by
// one; malformed items are skipped. Backend failure yields an empty slice and
// no error so callers can surface an empty set.
func Generate(ctx context.Context, client llm.Client, requirements *types.ExtractedRequirements, areaList []string, profile *types.CandidateProfile, limit int, language string) []types.Question {
	if limit <= 0 || len(areaList) == 0 {
		return nil
	}

	template, err := prompts.Get("scan.json", "generate-questions")
	if err != nil {
		log.Printf("question generation prompt missing: %v", err)
		return nil
	}

	perArea := limit / len(areaList)
	if perArea < 1 {
		perArea = 1
	}

	prompt := prompts.Format(template, map[string]string{
		"Count":    fmt.Sprintf("%d", limit),
		"Context":  jobContext(requirements, profile),
		"Areas":    numberedAreas(areaList),
		"PerArea":  fmt.Sprintf("%d", perArea),
		"Language": prompts.LanguageInstruction(language),
	})

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("question generation degraded: %v", err)
		return nil
	}

	return parseGeneratedQuestions(llm.CleanJSONBlock(raw), len(areaList), limit)
}

// parseGeneratedQuestions decodes the response array item by item so one bad
// element does not discard the batch.
func parseGeneratedQuestions(jsonText string, areaCount, limit int) []types.Question {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &items); err != nil {
		log.Printf("question generation returned non-array response: %v", err)
		return nil
	}

	questions := make([]types.Question, 0, len(items))
	for _, rawItem := range items {
		var item generatedItem
		if err := json.Unmarshal(rawItem, &item); err != nil {
			continue
		}
		question, ok := buildQuestion(item, areaCount)
		if !ok {
			continue
		}
		questions = append(questions, question)
		if len(questions) == limit {
			break
		}
	}
	return questions
}

func buildQuestion(item generatedItem, areaCount int) (types.Question, bool) {
	text := strings.TrimSpace(item.Text)
	answer := strings.TrimSpace(item.CorrectAnswer)
	if text == "" || answer == "" {
		return types.Question{}, false
	}

	qType := types.QuestionType(strings.ToLower(strings.TrimSpace(item.Type)))
	switch qType {
	case types.QuestionMultipleChoice:
		if len(item.Choices) < 2 {
			return types.Question{}, false
		}
	case types.QuestionTrueFalse:
		item.Choices = nil
	default:
		return types.Question{}, false
	}

	question := types.Question{
		ID:            uuid.NewString(),
		Text:          text,
		Type:          qType,
		Choices:       item.Choices,
		CorrectAnswer: answer,
	}
	if item.AreaIndex != nil && *item.AreaIndex >= 0 && *item.AreaIndex < areaCount {
		question.AreaIndex = item.AreaIndex
	}
	return question, true
}

// ForDisplay strips correct answers before questions go to clients.
func ForDisplay(questions []types.Question) []types.DisplayQuestion {
	display := make([]types.DisplayQuestion, 0, len(questions))
	for _, q := range questions {
		display = append(display, q.Display())
	}
	return display
}

// numberedAreas renders areas as the zero-indexed list the prompt references.
func numberedAreas(areaList []string) string {
	lines := make([]string, 0, len(areaList))
	for i, area := range areaList {
		lines = append(lines, fmt.Sprintf("%d. %s", i, area))
	}
	return strings.Join(lines, "\n")
}

// jobContext renders the requirements and profile as a compact prompt block.
func jobContext(requirements *types.ExtractedRequirements, profile *types.CandidateProfile) string {
	var parts []string
	if requirements != nil && !requirements.IsEmpty() {
		if len(requirements.Skills) > 0 {
			parts = append(parts, "Skills: "+strings.Join(requirements.SkillNames(), ", ")+".")
		}
		if len(requirements.Domains) > 0 {
			parts = append(parts, "Domains: "+strings.Join(requirements.DomainNames(), ", ")+".")
		}
		if requirements.Summary != "" {
			parts = append(parts, requirements.Summary)
		}
	}
	if profile != nil {
		parts = append(parts, profile.Describe())
	}
	if len(parts) == 0 {
		return "No job context available."
	}
	return strings.Join(parts, " ")
}
