package ingestion

import "fmt"

// UnsupportedFormatError indicates an uploaded file has an extension the
// extractor cannot handle.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type: %s (allowed: .pdf, .docx, .txt)", e.Extension)
}

// FetchError indicates a JD URL was unreachable or yielded too little text to
// be a job posting (typically a login wall or a blocked page).
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("could not extract job description from %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("could not extract job description from %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ExtractionError indicates a file parsed but produced no usable text.
type ExtractionError struct {
	Filename string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("could not extract text from %s: %v", e.Filename, e.Cause)
	}
	return fmt.Sprintf("could not extract text from %s", e.Filename)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
