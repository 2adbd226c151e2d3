// Package ingestion turns job descriptions supplied as pasted text, uploaded
// files, or job board URLs into cleaned plain text for the requirement
// extractor.
package ingestion

import (
	"regexp"
	"strings"
)

// MaxJDTextLength caps the cleaned JD text fed into generation prompts.
const MaxJDTextLength = 50_000

var multiSpace = regexp.MustCompile(`\s+`)
var excessBlankLines = regexp.MustCompile(`\n\n\n+`)

// CleanText normalizes JD text while preserving structure: line endings are
// unified, trailing whitespace is dropped, runs of spaces collapse, markdown
// headings and bullets keep their markers, and blank-line runs shrink to one.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = excessBlankLines.ReplaceAllString(result, "\n\n")
	result = strings.TrimSpace(result)

	if len(result) > MaxJDTextLength {
		result = result[:MaxJDTextLength] + "\n\n[Text truncated for analysis.]"
	}
	return result
}

// cleanLine cleans a single line while preserving structure
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")

	// Markdown headings keep their markers, leading spaces normalized away
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	// Bullet items keep indentation before the marker
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") {
		indent := len(line) - len(trimmed)
		if indent > 0 {
			return strings.Repeat(" ", indent) + trimmed
		}
		return trimmed
	}

	leadingSpace := len(line) - len(trimmed)
	content := multiSpace.ReplaceAllString(strings.TrimSpace(line), " ")
	if leadingSpace > 0 {
		return strings.Repeat(" ", leadingSpace) + content
	}
	return content
}

// FromText cleans pasted JD text.
func FromText(text string) string {
	return CleanText(text)
}
