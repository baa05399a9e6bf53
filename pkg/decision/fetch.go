package decision

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"anchorite-hq/anchorite/pkg/decision/features"
)

// Fetcher retrieves page metadata for a URL. Implementations own their
// transport timeouts; the engine additionally bounds every call with its
// own shorter deadline.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*features.Metadata, error)
}

// maxFetchBody caps how much of a page the fetcher reads.
const maxFetchBody = 256 * 1024

var educationalTerms = []string{
	"tutorial", "course", "learn", "education", "guide",
	"documentation", "lesson", "lecture", "how to",
}

var entertainmentTerms = []string{
	"funny", "prank", "celebrity", "gossip", "meme", "viral",
	"compilation", "reaction",
}

// HTTPFetcher fetches pages over HTTP and derives metadata from the raw
// HTML with cheap string scanning. It is deliberately not a full HTML
// parser: title, meta description and indicator counts are enough signal
// for the feature extractor.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with the given transport timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch retrieves the page and fills in derived metadata. The returned
// metadata always carries at least the URL and domain.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*features.Metadata, error) {
	meta := features.BasicMetadata(url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return meta, err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return meta, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBody))
	if err != nil {
		return meta, err
	}

	html := string(body)
	lower := asciiLower(html)

	meta.Title = extractTag(html, lower, "<title", "</title>")
	meta.Description = extractMetaDescription(html, lower)
	meta.ContentLength = len(body)
	meta.HasVideo = strings.Contains(lower, "<video")
	meta.HasForms = strings.Contains(lower, "<form")
	meta.EducationalIndicators = countTerms(lower, educationalTerms)
	meta.EntertainmentIndicators = countTerms(lower, entertainmentTerms)
	return meta, nil
}

// asciiLower lowercases ASCII letters only. Unlike strings.ToLower it
// never changes the byte length of the string, so offsets found in the
// result are valid in the original. Tag names and attribute markers are
// ASCII, which is all the case-insensitive scans below need.
func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// extractTag returns the text between the first occurrence of an opening
// tag and its closing tag. Offsets are found in lower and applied to
// html; the two must be byte-aligned (see asciiLower).
func extractTag(html, lower, openTag, closeTag string) string {
	start := strings.Index(lower, openTag)
	if start < 0 {
		return ""
	}
	gt := strings.Index(lower[start:], ">")
	if gt < 0 {
		return ""
	}
	start += gt + 1
	end := strings.Index(lower[start:], closeTag)
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(html[start : start+end])
}

func extractMetaDescription(html, lower string) string {
	idx := strings.Index(lower, `name="description"`)
	if idx < 0 {
		idx = strings.Index(lower, `property="og:description"`)
	}
	if idx < 0 {
		return ""
	}
	rest := lower[idx:]
	content := strings.Index(rest, `content="`)
	if content < 0 {
		return ""
	}
	start := idx + content + len(`content="`)
	end := strings.Index(lower[start:], `"`)
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(html[start : start+end])
}

func countTerms(lower string, terms []string) int {
	count := 0
	for _, term := range terms {
		count += strings.Count(lower, term)
	}
	return count
}
