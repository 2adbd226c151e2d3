package roadmap

import (
	"regexp"
	"strings"

	"github.com/tuanngo/preppath/internal/types"
)

// MaxReferences caps how many links one note contributes.
const MaxReferences = 6

var markdownLink = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)

// ParseReferences extracts [Title](URL) links from a markdown note, http and
// https only, capped at MaxReferences. The prose keeps its inline links; the
// parsed list is a separate structured view.
func ParseReferences(markdown string) []types.Reference {
	matches := markdownLink.FindAllStringSubmatch(markdown, -1)
	refs := make([]types.Reference, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, types.Reference{
			Title: strings.TrimSpace(m[1]),
			URL:   strings.TrimSpace(m[2]),
		})
		if len(refs) == MaxReferences {
			break
		}
	}
	if len(refs) == 0 {
		return nil
	}
	return refs
}
