package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Result is a fully buffered HTTP response. It only lives long enough for the
// downloadability check, extension resolution and the local write.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ContentType returns the declared Content-Type header, if any.
func (r *Result) ContentType() string {
	return r.Header.Get("Content-Type")
}

// Downloadable decides whether the response looks like an actual file payload
// rather than an inline text or HTML page (typically an error page or a
// redirect target). The decision uses the Content-Type header only; the body
// is never inspected.
func (r *Result) Downloadable() bool {
	contentType := r.ContentType()
	if contentType == "" {
		return false
	}

	lowered := strings.ToLower(contentType)
	if strings.Contains(lowered, "text") {
		return false
	}
	if strings.Contains(lowered, "html") {
		return false
	}

	return true
}

// Fetcher resolves a URL into a buffered response.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}

// HTTPFetcher performs a single synchronous GET per call. No retries.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher builds a fetcher with the given request timeout. A zero
// timeout leaves the request unbounded.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", url, err)
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

var _ Fetcher = (*HTTPFetcher)(nil)
