package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultDownloadable(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{"missing content type", "", false},
		{"plain text", "text/plain", false},
		{"html", "text/html", false},
		{"html with charset", "text/html; charset=utf-8", false},
		{"uppercase html", "TEXT/HTML", false},
		{"xhtml", "application/xhtml+xml", false},
		{"excel", "application/vnd.ms-excel", true},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true},
		{"octet stream", "application/octet-stream", true},
		{"pdf", "application/pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.contentType != "" {
				header.Set("Content-Type", tt.contentType)
			}
			res := &Result{StatusCode: http.StatusOK, Header: header}
			assert.Equal(t, tt.want, res.Downloadable())
		})
	}
}

func TestCandidateExtension(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"xls url", "https://example.org/files/ISO10383_MIC.xls", ".xls"},
		{"csv url", "https://example.org/data.csv", ".csv"},
		{"nested dots", "https://example.org/a.b/report.v2.xlsx", ".xlsx"},
		{"no dot at all", "https://example-org-host/data", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CandidateExtension(tt.url))
		})
	}
}

func TestImpliedExtensions(t *testing.T) {
	t.Run("legacy excel", func(t *testing.T) {
		exts := ImpliedExtensions("application/vnd.ms-excel")
		assert.Contains(t, exts, ".xls")
	})

	t.Run("xlsx with params", func(t *testing.T) {
		exts := ImpliedExtensions("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet; charset=binary")
		assert.Contains(t, exts, ".xlsx")
	})

	t.Run("unknown type", func(t *testing.T) {
		assert.Empty(t, ImpliedExtensions("application/vnd.nobody-registered-this"))
	})

	t.Run("empty type", func(t *testing.T) {
		assert.Empty(t, ImpliedExtensions(""))
	})
}

func TestMatchesExtension(t *testing.T) {
	implied := []string{".xls", ".xlt"}
	assert.True(t, MatchesExtension(".xls", implied))
	assert.True(t, MatchesExtension(".XLS", implied))
	assert.False(t, MatchesExtension(".csv", implied))
	assert.False(t, MatchesExtension(".xls", nil))
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/vnd.ms-excel")
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5 * time.Second)
	res, err := f.Fetch(context.Background(), srv.URL+"/file.xls")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/vnd.ms-excel", res.ContentType())
	assert.Equal(t, []byte("payload"), res.Body)
}

func TestHTTPFetcherConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	f := NewHTTPFetcher(time.Second)
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}
