package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><main>Backend Engineer wanted</main></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "Backend Engineer")
}

func TestURLInvalid(t *testing.T) {
	_, err := URL(context.Background(), "not-a-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "not-a-url", fetchErr.URL)
}

func TestURLNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	assert.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusForbidden, result.StatusCode)
}

func TestExtractMainText(t *testing.T) {
	html := `<html><body>
		<nav>Home | Jobs | Sign in</nav>
		<div class="job-description">
			<p>We are hiring a backend engineer.</p>
			<p>Requirements: Go, PostgreSQL.</p>
		</div>
		<div class="similar-jobs">Other jobs you may like</div>
		<footer>Copyright</footer>
	</body></html>`

	text, err := ExtractMainText(html, []string{".job-description"}, ".similar-jobs")
	require.NoError(t, err)
	assert.Contains(t, text, "backend engineer")
	assert.Contains(t, text, "PostgreSQL")
	assert.NotContains(t, text, "Sign in")
	assert.NotContains(t, text, "Other jobs")
}

func TestExtractMainTextBodyFallback(t *testing.T) {
	html := `<html><body><p>Plain posting text</p></body></html>`
	text, err := ExtractMainText(html, []string{".does-not-exist"})
	require.NoError(t, err)
	assert.Contains(t, text, "Plain posting text")
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://www.linkedin.com/jobs/view/4375191000/", PlatformLinkedIn},
		{"https://www.topcv.vn/viec-lam/backend-developer/123", PlatformTopCV},
		{"https://www.vietnamworks.com/backend-developer-123-jd", PlatformVietnamWorks},
		{"https://itviec.com/it-jobs/golang-developer", PlatformITviec},
		{"https://example.com/careers/123", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestLinkedInJobURLPattern(t *testing.T) {
	assert.True(t, LinkedInJobURLPattern.MatchString("https://www.linkedin.com/jobs/view/4375191000/"))
	assert.True(t, LinkedInJobURLPattern.MatchString("http://linkedin.com/jobs/view/1"))
	assert.False(t, LinkedInJobURLPattern.MatchString("https://www.linkedin.com/in/somebody"))
}

func TestPlatformSelectorsNonEmpty(t *testing.T) {
	for _, p := range []Platform{PlatformLinkedIn, PlatformTopCV, PlatformVietnamWorks, PlatformITviec, PlatformUnknown} {
		assert.NotEmpty(t, PlatformContentSelectors(p), string(p))
		assert.NotEmpty(t, PlatformNoiseSelectors(p), string(p))
	}
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("short"))
	assert.True(t, ShouldUseBrowser(""))

	long := make([]byte, MinContentLength)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, ShouldUseBrowser(string(long)))
}
