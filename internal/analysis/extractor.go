// Package analysis implements the requirement extractor: it turns cleaned JD
// text into structured requirements (skills, domains, keywords, metadata, and
// an optional profile-fit estimate) via the generation backend. When the
// backend is unavailable the extractor degrades to an empty requirements
// placeholder instead of failing the ingestion flow.
package analysis

import (
	"context"
	"log"

	"github.com/tuanngo/preppath/internal/llm"
	"github.com/tuanngo/preppath/internal/prompts"
	"github.com/tuanngo/preppath/internal/schemas"
	"github.com/tuanngo/preppath/internal/types"
)

// Options configures one extraction run.
type Options struct {
	// Profile, when present, enables the profile_fit estimate.
	Profile *types.CandidateProfile
	// Language selects the output language of free-text fields ("vi"/"en").
	Language string
	Verbose  bool
}

// Extractor derives structured requirements from JD text.
type Extractor struct {
	client llm.Client
}

// NewExtractor creates an extractor backed by the given client.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract analyzes cleaned JD text and returns structured requirements.
// Backend unavailability and generation failures never propagate: the result
// is an empty ExtractedRequirements that callers can detect via IsEmpty.
// Malformed list items in the response are coerced or dropped, and a
// profile_fit level outside [1,5] drops the whole estimate.
func (e *Extractor) Extract(ctx context.Context, jobText string, opts Options) (*types.ExtractedRequirements, error) {
	template, err := prompts.Get("analysis.json", "extract-requirements")
	if err != nil {
		return nil, err
	}

	profileDesc := "No candidate profile available."
	if opts.Profile != nil {
		profileDesc = opts.Profile.Describe()
	}

	prompt := prompts.Format(template, map[string]string{
		"Language": prompts.LanguageInstruction(opts.Language),
		"Profile":  profileDesc,
		"JobText":  jobText,
	})

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		if llm.IsDegraded(err) {
			log.Printf("requirement extraction degraded: %v", err)
			return &types.ExtractedRequirements{}, nil
		}
		return nil, err
	}

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.ValidateRequirements(cleaned); err != nil {
		log.Printf("extractor response failed validation, coercing anyway: %v", err)
	}

	requirements, err := CoerceRequirements(cleaned)
	if err != nil {
		log.Printf("extractor response unusable: %v", err)
		return &types.ExtractedRequirements{}, nil
	}

	if opts.Profile == nil {
		requirements.Fit = nil
	}
	return requirements, nil
}

// IsolateJobContent asks the backend to strip board chrome (navigation, ads,
// related postings) from scraped page text, leaving only the posting body.
// On degradation the input text is returned unchanged.
func (e *Extractor) IsolateJobContent(ctx context.Context, pageText, source string) (string, error) {
	template, err := prompts.Get("analysis.json", "isolate-job-content")
	if err != nil {
		return "", err
	}

	prompt := prompts.Format(template, map[string]string{
		"Source":   source,
		"PageText": pageText,
	})

	isolated, err := e.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		if llm.IsDegraded(err) {
			log.Printf("job content isolation degraded, keeping raw text: %v", err)
			return pageText, nil
		}
		return "", err
	}
	if isolated == "" {
		return pageText, nil
	}
	return isolated, nil
}
