package ingestion

import (
	"context"
	"log"
	"time"

	"github.com/tuanngo/preppath/internal/fetch"
)

// MinURLTextLength is the practical threshold below which a fetched page is
// considered blocked or behind a login wall rather than a real posting.
const MinURLTextLength = 100

// URLOptions configures FromURL.
type URLOptions struct {
	// UseBrowser enables the headless-browser fallback for SPA boards.
	UseBrowser bool
	// BrowserTimeout bounds one browser render. Zero means 30s.
	BrowserTimeout time.Duration
	Verbose        bool
}

// FromURL fetches a job posting page and extracts its cleaned text using
// board-specific selectors. It fails with *FetchError when the page is
// unreachable or yields fewer than MinURLTextLength characters.
func FromURL(ctx context.Context, urlStr string, opts URLOptions) (string, error) {
	platform := fetch.DetectPlatform(urlStr)
	if opts.Verbose {
		log.Printf("[VERBOSE] JD URL: %s (platform: %s)", urlStr, platform)
	}

	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "request failed", Cause: err}
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	text, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "content extraction failed", Cause: err}
	}

	if opts.UseBrowser && fetch.ShouldUseBrowser(text) {
		timeout := opts.BrowserTimeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		html, browserErr := fetch.WithBrowser(ctx, urlStr, timeout, opts.Verbose)
		if browserErr != nil {
			log.Printf("browser fallback failed for %s: %v", urlStr, browserErr)
		} else {
			rendered, extractErr := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...)
			if extractErr == nil && len(rendered) > len(text) {
				text = rendered
			}
		}
	}

	cleaned := CleanText(text)
	if len(cleaned) < MinURLTextLength {
		return "", &FetchError{
			URL:     urlStr,
			Message: "too little text retrieved (page may require login or block access)",
		}
	}
	return cleaned, nil
}
