package e2e

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AK067CSE/newsagent/internal/api"
	"github.com/AK067CSE/newsagent/internal/artifact"
	"github.com/AK067CSE/newsagent/internal/observe"
	"github.com/AK067CSE/newsagent/internal/pipeline"
	"github.com/AK067CSE/newsagent/internal/session"
	"github.com/AK067CSE/newsagent/internal/task"
)

// fakeBackend mimics the news pipeline API: an asynchronous discoverer with
// the task status/result pair, and synchronous classify/summarize.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	var polls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/news/discoverer", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"task_id": "t1"}`))
	})
	mux.HandleFunc("/api/tasks/t1", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&polls, 1) == 1 {
			w.Write([]byte(`{"status": "running"}`))
			return
		}
		w.Write([]byte(`{"status": "completed"}`))
	})
	mux.HandleFunc("/api/tasks/t1/result", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "success", "articles": [
			{"title": "Acme acquires Initech", "url": "http://news/1", "source": "reuters.com"},
			{"title": "Globex earnings beat", "url": "http://news/2", "source": "bloomberg.com"},
			{"title": "Weather report", "url": "http://news/3", "source": "example.com"}
		], "total_found": 3}`))
	})
	mux.HandleFunc("/classify", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "success",
			"by_company": {"Acme": [{"title": "Acme acquires Initech", "url": "http://news/1"}],
			               "Globex": [{"title": "Globex earnings beat", "url": "http://news/2"}]},
			"unclassified": [{"title": "Weather report", "url": "http://news/3"}]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newPipeline(t *testing.T, baseURL, dbPath string) *pipeline.Client {
	t.Helper()
	store, err := artifact.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	apiClient := api.New(baseURL)
	poller := task.New(apiClient, task.Policy{Interval: 5 * time.Millisecond, Timeout: time.Second}, nil)
	return pipeline.New(apiClient, poller, store, observe.New(io.Discard, false))
}

// TestDiscoverThenClassifyAcrossClients reproduces the panel's navigation
// pattern: the discovery "page" and the classification "page" are separate
// clients that share nothing but the persisted cache.
func TestDiscoverThenClassifyAcrossClients(t *testing.T) {
	server := fakeBackend(t)
	tmpDir, _ := os.MkdirTemp("", "e2e-*")
	defer os.RemoveAll(tmpDir)
	dbPath := filepath.Join(tmpDir, "cache.db")

	ctx := session.NewContext(context.Background(), session.NewIdentity())

	// Page one: discover and implicitly publish.
	page1 := newPipeline(t, server.URL, dbPath)
	result, err := page1.Discover(ctx, pipeline.DiscoverRequest{
		Query: "AI companies", DaysBack: 7, MaxArticles: 50,
	})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if result.TotalFound != 3 {
		t.Fatalf("Expected 3 articles, got %d", result.TotalFound)
	}

	// Page two: a fresh client picks the artifact up from disk.
	page2 := newPipeline(t, server.URL, dbPath)
	discovery, ok := page2.LatestDiscovery()
	if !ok {
		t.Fatal("Second client must see the published discovery")
	}
	if discovery.Query != "AI companies" || len(discovery.Articles) != 3 {
		t.Fatalf("Artifact mismatch: %+v", discovery)
	}

	classified, err := page2.Classify(ctx, pipeline.ClassifyRequest{
		Articles:  discovery.Articles,
		Companies: []string{"Acme", "Globex"},
	})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if classified.Matched() != 2 || len(classified.Unclassified) != 1 {
		t.Fatalf("Unexpected classification: %+v", classified)
	}
}

// TestColdStartWithoutCache checks the degradation path: losing the cache
// must not break a downstream stage, only remove the convenience.
func TestColdStartWithoutCache(t *testing.T) {
	server := fakeBackend(t)
	tmpDir, _ := os.MkdirTemp("", "e2e-*")
	defer os.RemoveAll(tmpDir)

	pl := newPipeline(t, server.URL, filepath.Join(tmpDir, "fresh.db"))
	if _, ok := pl.LatestDiscovery(); ok {
		t.Fatal("Fresh cache must report absence")
	}

	// The stage still runs from fresh input.
	ctx := session.NewContext(context.Background(), session.NewIdentity())
	classified, err := pl.Classify(ctx, pipeline.ClassifyRequest{
		Articles:  []pipeline.Article{{Title: "Acme acquires Initech", URL: "http://news/1"}},
		Companies: []string{"Acme"},
	})
	if err != nil {
		t.Fatalf("Classify from fresh input failed: %v", err)
	}
	if classified.Status != "success" {
		t.Fatalf("Unexpected status: %s", classified.Status)
	}
}

// TestTaskFailurePropagation is the failed-upstream scenario: the backend
// reports a failed task and the client surfaces its message.
func TestTaskFailurePropagation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/news/exporter", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"task_id": "tx"}`))
	})
	mux.HandleFunc("/api/tasks/tx", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "failed", "error": "timeout upstream"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	tmpDir, _ := os.MkdirTemp("", "e2e-*")
	defer os.RemoveAll(tmpDir)

	pl := newPipeline(t, server.URL, filepath.Join(tmpDir, "cache.db"))
	ctx := session.NewContext(context.Background(), session.NewIdentity())
	_, err := pl.Export(ctx, pipeline.ExportRequest{Articles: []pipeline.Article{{Title: "a"}}, Format: "csv"})

	var fe *task.FailedError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected FailedError, got %v", err)
	}
	if fe.Message != "timeout upstream" {
		t.Fatalf("Expected backend message, got %q", fe.Message)
	}
}
