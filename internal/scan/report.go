package scan

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tuanngo/preppath/internal/llm"
	"github.com/tuanngo/preppath/internal/prompts"
	"github.com/tuanngo/preppath/internal/types"
)

// BuildReport generates the narrative improvement analysis for a scored
// diagnostic. It returns an empty string when the backend fails; the numeric
// score stands on its own.
func BuildReport(ctx context.Context, client llm.Client, requirements *types.ExtractedRequirements, questions []types.Question, perQuestion []bool, language string) string {
	template, err := prompts.Get("scan.json", "improvement-report")
	if err != nil {
		log.Printf("improvement report prompt missing: %v", err)
		return ""
	}

	prompt := prompts.Format(template, map[string]string{
		"Context":  jobContext(requirements, nil),
		"Results":  formatOutcomes(questions, perQuestion),
		"Language": prompts.LanguageInstruction(language),
	})

	report, err := client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("improvement report degraded: %v", err)
		return ""
	}
	return strings.TrimSpace(report)
}

func formatOutcomes(questions []types.Question, perQuestion []bool) string {
	lines := make([]string, 0, len(questions))
	for i, q := range questions {
		if i >= len(perQuestion) {
			break
		}
		verdict := "Wrong"
		if perQuestion[i] {
			verdict = "Correct"
		}
		lines = append(lines, fmt.Sprintf("- %q: %s", q.Text, verdict))
	}
	return strings.Join(lines, "\n")
}
