package ingestion

import (
	"bytes"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// AllowedExtensions lists the file types the JD extractor accepts.
var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

var xmlTag = regexp.MustCompile(`<[^>]+>`)

// FromFile extracts cleaned JD text from an uploaded file. The extension of
// filename selects the parser; unknown extensions fail with
// UnsupportedFormatError.
func FromFile(content []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !AllowedExtensions[ext] {
		return "", &UnsupportedFormatError{Extension: ext}
	}

	var text string
	var err error
	switch ext {
	case ".pdf":
		text, err = extractPDF(content)
	case ".docx":
		text, err = extractDOCX(content)
	case ".txt":
		text = string(content)
	}
	if err != nil {
		return "", &ExtractionError{Filename: filename, Cause: err}
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", &ExtractionError{Filename: filename}
	}
	return cleaned, nil
}

// extractPDF pulls plain text from PDF bytes via github.com/ledongthuc/pdf.
func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// extractDOCX pulls text from DOCX bytes via github.com/nguyenthenguyen/docx.
// GetContent returns document.xml, so paragraph boundaries become newlines
// and remaining tags are stripped.
func extractDOCX(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	doc, err := docx.ReadDocxFromMemory(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	defer func() { _ = doc.Close() }()

	content := doc.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return content, nil
}
