// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/tuanngo/preppath/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRequirements outputs a human-readable summary of the extracted
// job requirements.
func (p *Printer) PrintRequirements(requirements *types.ExtractedRequirements) {
	if requirements == nil {
		return
	}

	var sb strings.Builder

	if requirements.Meta != nil {
		if requirements.Meta.Company != "" {
			sb.WriteString(fmt.Sprintf("Company:  %s\n", requirements.Meta.Company))
		}
		if requirements.Meta.Title != "" {
			sb.WriteString(fmt.Sprintf("Role:     %s\n", requirements.Meta.Title))
		}
		sb.WriteString("\n")
	}

	if len(requirements.Skills) > 0 {
		sb.WriteString("Skills:\n")
		count := min(len(requirements.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			skill := requirements.Skills[i]
			sb.WriteString(fmt.Sprintf("  • %s", skill.Name))
			if skill.Level != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", skill.Level))
			}
			sb.WriteString("\n")
		}
		if len(requirements.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(requirements.Skills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(requirements.Domains) > 0 {
		sb.WriteString("Domains:\n")
		count := min(len(requirements.Domains), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", requirements.Domains[i].Name))
		}
		if len(requirements.Domains) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(requirements.Domains)-3))
		}
		sb.WriteString("\n")
	}

	if len(requirements.Keywords) > 0 {
		sb.WriteString("Keywords:\n")
		terms := requirements.KeywordTerms()
		joined := strings.Join(terms, ", ")
		if len(joined) > 50 {
			joined = joined[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %s\n", joined))
	}

	if requirements.Fit != nil {
		sb.WriteString(fmt.Sprintf("\nProfile fit: %d/5", requirements.Fit.Level))
		if requirements.Fit.Label != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", requirements.Fit.Label))
		}
		sb.WriteString("\n")
	}

	p.printBox("EXTRACTED REQUIREMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintKnowledgeAreas outputs the derived knowledge areas in order.
func (p *Printer) PrintKnowledgeAreas(areas []string) {
	if len(areas) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Derived %d areas:\n\n", len(areas)))
	for i, area := range areas {
		if len(area) > 50 {
			area = area[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, area))
	}

	p.printBox("KNOWLEDGE AREAS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMastery outputs per-area mastery levels from a scored memory scan.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMastery(mastery []types.AreaMastery) {
	if len(mastery) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO SCORED AREAS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for i, m := range mastery {
		area := m.Area
		if len(area) > 40 {
			area = area[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("%s\n", area))
		sb.WriteString(fmt.Sprintf("  Level %d/5 (%d/%d correct)\n", m.Level, m.Correct, m.Total))
		if i < len(mastery)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("AREA MASTERY", sb.String())
}
