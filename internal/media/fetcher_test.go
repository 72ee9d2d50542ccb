package media

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeholder = "/static/posters/default.jpg"

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFetcher(t.TempDir(), placeholder, logger)
}

func TestFetch_SavesImage(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	webPath := f.Fetch(context.Background(), srv.URL+"/poster.jpg", "posters")

	require.True(t, strings.HasPrefix(webPath, "/static/posters/"), "got %q", webPath)
	saved := filepath.Join(f.staticDir, "posters", filepath.Base(webPath))
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestFetch_NonHTTPURL(t *testing.T) {
	f := newTestFetcher(t)
	assert.Equal(t, placeholder, f.Fetch(context.Background(), "ftp://example.com/poster.jpg", "posters"))
	assert.Equal(t, placeholder, f.Fetch(context.Background(), "", "posters"))
}

func TestFetch_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	assert.Equal(t, placeholder, f.Fetch(context.Background(), srv.URL, "posters"))
}

func TestFetch_UndersizedBodyDiscarded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("tiny"))
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	assert.Equal(t, placeholder, f.Fetch(context.Background(), srv.URL, "posters"))

	// The truncated file must not be left behind.
	entries, err := os.ReadDir(filepath.Join(f.staticDir, "posters"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
