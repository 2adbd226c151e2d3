// Package fetch - platform.go provides job-board detection and board-specific selectors.
package fetch

import (
	"net/url"
	"regexp"
	"strings"
)

// Platform represents a known job board.
type Platform string

const (
	// PlatformLinkedIn is linkedin.com/jobs
	PlatformLinkedIn Platform = "linkedin"
	// PlatformTopCV is topcv.vn
	PlatformTopCV Platform = "topcv"
	// PlatformVietnamWorks is vietnamworks.com
	PlatformVietnamWorks Platform = "vietnamworks"
	// PlatformITviec is itviec.com
	PlatformITviec Platform = "itviec"
	// PlatformUnknown is an unrecognized board
	PlatformUnknown Platform = "unknown"
)

// LinkedInJobURLPattern matches canonical LinkedIn job view URLs,
// e.g. https://www.linkedin.com/jobs/view/4375191000/.
var LinkedInJobURLPattern = regexp.MustCompile(`(?i)^https?://(www\.)?linkedin\.com/jobs/view/\d+`)

// DetectPlatform identifies the job board from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	switch {
	case strings.Contains(host, "linkedin.com"):
		return PlatformLinkedIn
	case strings.Contains(host, "topcv.vn"):
		return PlatformTopCV
	case strings.Contains(host, "vietnamworks.com"):
		return PlatformVietnamWorks
	case strings.Contains(host, "itviec.com"):
		return PlatformITviec
	default:
		return PlatformUnknown
	}
}

// PlatformContentSelectors returns content selectors for a specific board.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformLinkedIn:
		return []string{
			".description__text",
			".show-more-less-html__markup",
			".jobs-description__content",
			".jobs-box__html-content",
			"main",
		}
	case PlatformTopCV:
		return []string{
			".job-detail__information-detail",
			".job-description",
			".job-data",
			"main",
		}
	case PlatformVietnamWorks:
		return []string{
			".job-description",
			"[name='jobDescription']",
			".what-we-offer",
			"main",
		}
	case PlatformITviec:
		return []string{
			".job-details",
			".jd-page",
			".job-content",
			"main",
		}
	default:
		return GenericJobSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific board.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		".apply-button-container",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
		".similar-jobs",
		".related-jobs",
		".login-wall",
	}

	switch platform {
	case PlatformLinkedIn:
		return append(common,
			".top-card-layout__cta-container",
			".similar-jobs__list",
			".sign-in-modal",
			".join-form",
		)
	case PlatformTopCV:
		return append(common,
			".job-detail__company",
			".box-apply",
			".suggest-job",
		)
	case PlatformVietnamWorks:
		return append(common,
			".banner-ads",
			".job-list-suggestion",
		)
	case PlatformITviec:
		return append(common,
			".employer-info",
			".blog-posts",
		)
	default:
		return common
	}
}
