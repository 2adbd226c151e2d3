// Package roadmap synthesizes per-area markdown learning notes into an
// ordered study plan. One note per knowledge area, generated concurrently;
// a failed generation degrades to a short placeholder so roadmap creation
// never blocks on the backend.
package roadmap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tuanngo/preppath/internal/llm"
	"github.com/tuanngo/preppath/internal/prompts"
	"github.com/tuanngo/preppath/internal/types"
)

// MaxAreas caps how many knowledge areas become roadmap items.
const MaxAreas = 10

// maxConcurrentNotes bounds parallel generation calls.
const maxConcurrentNotes = 4

// Item is one synthesized study item before persistence.
type Item struct {
	Area       string
	Content    string
	References []types.Reference
}

// Synthesize generates one learning note per knowledge area, in area order.
// Areas beyond MaxAreas are dropped. Notes are generated concurrently; a
// per-item backend failure produces a placeholder note instead of an error.
func Synthesize(ctx context.Context, client llm.Client, areaList []string, requirements *types.ExtractedRequirements, language string) []Item {
	if len(areaList) > MaxAreas {
		areaList = areaList[:MaxAreas]
	}
	if len(areaList) == 0 {
		return nil
	}

	items := make([]Item, len(areaList))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentNotes)
	for i, area := range areaList {
		g.Go(func() error {
			content := generateNote(gctx, client, area, requirements, language)
			items[i] = Item{
				Area:       area,
				Content:    content,
				References: ParseReferences(content),
			}
			return nil
		})
	}
	// Workers never return errors; placeholders cover failures.
	_ = g.Wait()
	return items
}

// generateNote produces the markdown note for one area, degrading to a
// placeholder when the prompt or backend is unavailable.
func generateNote(ctx context.Context, client llm.Client, area string, requirements *types.ExtractedRequirements, language string) string {
	template, err := prompts.Get("roadmap.json", "learning-note")
	if err != nil {
		log.Printf("learning note prompt missing: %v", err)
		return placeholderNote(area)
	}

	prompt := prompts.Format(template, map[string]string{
		"Area":     area,
		"Context":  describeContext(requirements),
		"Language": prompts.LanguageInstruction(language),
	})

	content, err := client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		log.Printf("learning note for %q degraded: %v", area, err)
		return placeholderNote(area)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return placeholderNote(area)
	}
	return content
}

func placeholderNote(area string) string {
	return fmt.Sprintf("## %s\n\nReview the fundamentals of %s and practice explaining the key concepts aloud before the interview.", area, area)
}

func describeContext(requirements *types.ExtractedRequirements) string {
	if requirements == nil || requirements.IsEmpty() {
		return "General technical interview preparation."
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
