package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_duper/app/search_duper/pkg/search"
)

func engineAt(srv *httptest.Server, name, queryParam, countParam string) search.Engine {
	return search.Engine{Name: name, BaseURL: srv.URL + "/search", QueryParam: queryParam, CountParam: countParam}
}

func TestFetch_OK(t *testing.T) {
	var gotUA, gotPath, gotQuery, gotCount string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("p")
		gotCount = r.URL.Query().Get("n")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	c := NewClient(Options{})
	body, err := c.Fetch(context.Background(), engineAt(srv, "yahoo", "p", "n"), "rust programming", 10)

	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", body)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "/search", gotPath)
	assert.Equal(t, "rust programming", gotQuery)
	assert.Equal(t, "10", gotCount)
}

func TestFetch_CustomUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := NewClient(Options{UserAgent: "test-agent/1.0"})
	_, err := c.Fetch(context.Background(), engineAt(srv, "bing", "q", "count"), "x", 1)

	require.NoError(t, err)
	assert.Equal(t, "test-agent/1.0", gotUA)
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("busy"))
	}))
	defer srv.Close()

	c := NewClient(Options{})
	body, err := c.Fetch(context.Background(), engineAt(srv, "bing", "q", "count"), "x", 1)

	require.Error(t, err)
	assert.Empty(t, body)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "bing", statusErr.Engine)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "503")
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Options{Timeout: 50 * time.Millisecond})
	_, err := c.Fetch(context.Background(), engineAt(srv, "google", "q", "num"), "x", 1)

	require.Error(t, err)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
	assert.Contains(t, err.Error(), "google")
}

func TestFetch_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Options{})
	_, err := c.Fetch(ctx, engineAt(srv, "google", "q", "num"), "x", 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetch_TruncatesLargePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer srv.Close()

	log, hook := test.NewNullLogger()
	c := NewClient(Options{MaxPageBytes: 10, Log: log})
	body, err := c.Fetch(context.Background(), engineAt(srv, "google", "q", "num"), "x", 1)

	require.NoError(t, err)
	assert.Len(t, body, 10)

	// 截断不能悄无声息
	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "google", entry.Data["engine"])
	assert.Contains(t, entry.Message, "10")
}

func TestFetch_PageAtLimitIsNotTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 10)))
	}))
	defer srv.Close()

	log, hook := test.NewNullLogger()
	c := NewClient(Options{MaxPageBytes: 10, Log: log})
	body, err := c.Fetch(context.Background(), engineAt(srv, "bing", "q", "count"), "x", 1)

	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 10), body)
	assert.Empty(t, hook.AllEntries())
}

func TestFetch_TruncatesWithoutLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer srv.Close()

	c := NewClient(Options{MaxPageBytes: 10})
	body, err := c.Fetch(context.Background(), engineAt(srv, "yahoo", "p", "n"), "x", 1)

	require.NoError(t, err)
	assert.Len(t, body, 10)
}
