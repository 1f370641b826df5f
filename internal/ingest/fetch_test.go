package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchURL_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "ApplyForge")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><main>hello</main></body></html>"))
	}))
	defer srv.Close()

	result, err := FetchURL(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "hello")
}

func TestFetchURL_InvalidURL(t *testing.T) {
	_, err := FetchURL(context.Background(), "not-a-url", nil)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.False(t, fetchErr.Retryable)
}

func TestFetchURL_ServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := FetchURL(context.Background(), srv.URL, nil)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, fetchErr.Retryable)
}

func TestFetchURL_NotFoundIsNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := FetchURL(context.Background(), srv.URL, nil)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.False(t, fetchErr.Retryable)
}

const directoryHTML = `
<html>
<head><script>tracking();</script></head>
<body>
  <nav>Home | About</nav>
  <div class="cookie-banner">We use cookies</div>
  <main>
    <div class="team-list">
      Dana Smith - Senior Recruiter
      Rene Cruz - Talent Lead
    </div>
  </main>
  <footer>Copyright</footer>
</body>
</html>`

func TestExtractMainText_UsesSelectorsAndStripsNoise(t *testing.T) {
	text, err := ExtractMainText(directoryHTML, DirectorySelectors())
	require.NoError(t, err)

	assert.Contains(t, text, "Dana Smith - Senior Recruiter")
	assert.Contains(t, text, "Rene Cruz - Talent Lead")
	assert.NotContains(t, text, "cookies")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "tracking")
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	html := `<html><body><p>Just a paragraph.</p></body></html>`
	text, err := ExtractMainText(html, []string{".does-not-exist"})
	require.NoError(t, err)
	assert.Equal(t, "Just a paragraph.", text)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("   "))
	assert.True(t, ShouldUseBrowser("short page"))
	assert.False(t, ShouldUseBrowser(strings.Repeat("long content ", 100)))
}

func TestCleanWhitespace(t *testing.T) {
	in := "  line one  \n\n\n   line two\n   \n"
	assert.Equal(t, "line one\nline two", cleanWhitespace(in))
}

func TestFetchText_StaticPath(t *testing.T) {
	body := strings.Repeat("A recruiter directory entry with plenty of text. ", 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><main>" + body + "</main></body></html>"))
	}))
	defer srv.Close()

	text, err := FetchText(context.Background(), srv.URL, DirectorySelectors(), false)
	require.NoError(t, err)
	assert.Contains(t, text, "recruiter directory entry")
}
