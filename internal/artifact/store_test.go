package artifact

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	tmpDir, _ := os.MkdirTemp("", "artifact-test-*")
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := Open(filepath.Join(tmpDir, "cache.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	cases := map[string]any{
		"empty_list":   []any{},
		"nested":       map[string]any{"query": "AI companies", "articles": []any{map[string]any{"title": "a", "score": 0.5}}},
		"scalar":       "just a string",
		"empty_object": map[string]any{},
	}

	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			if err := s.Publish(name, value); err != nil {
				t.Fatalf("Publish failed: %v", err)
			}

			var got any
			ok, err := s.FetchLatest(name, &got)
			if err != nil {
				t.Fatalf("FetchLatest failed: %v", err)
			}
			if !ok {
				t.Fatal("Expected value present")
			}
			if !reflect.DeepEqual(got, value) {
				t.Errorf("Round trip mismatch: published %#v, fetched %#v", value, got)
			}
		})
	}
}

func TestStore_Overwrite(t *testing.T) {
	s := openTestStore(t)

	s.Publish(LatestDiscovery, map[string]string{"query": "old"})
	s.Publish(LatestDiscovery, map[string]string{"query": "new"})

	var got map[string]string
	ok, _ := s.FetchLatest(LatestDiscovery, &got)
	if !ok || got["query"] != "new" {
		t.Errorf("Expected last write to win, got %#v", got)
	}
}

func TestStore_Absent(t *testing.T) {
	s := openTestStore(t)

	var got any
	ok, err := s.FetchLatest("never-published", &got)
	if err != nil {
		t.Fatalf("Absence must not be an error: %v", err)
	}
	if ok {
		t.Error("Expected absent sentinel for unknown name")
	}
}

func TestStore_CorruptValue(t *testing.T) {
	s := openTestStore(t)

	// Simulate a torn or foreign write directly in the table.
	if _, err := s.db.Exec(
		`INSERT INTO artifacts (name, value, updated_at) VALUES (?, ?, ?)`,
		"corrupt", `{"query": "unterminated`, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		t.Fatalf("Failed to seed corrupt row: %v", err)
	}

	var got map[string]any
	ok, err := s.FetchLatest("corrupt", &got)
	if err != nil {
		t.Fatalf("Corruption must read as absence, not error: %v", err)
	}
	if ok {
		t.Error("Expected absent sentinel for corrupt value")
	}

	// The next publish replaces the corrupt row.
	if err := s.Publish("corrupt", map[string]any{"query": "fixed"}); err != nil {
		t.Fatalf("Publish over corrupt row failed: %v", err)
	}
	ok, _ = s.FetchLatest("corrupt", &got)
	if !ok || got["query"] != "fixed" {
		t.Errorf("Expected repaired value, got %#v", got)
	}
}

func TestStore_Timestamp(t *testing.T) {
	s := openTestStore(t)

	if _, ok := s.Timestamp("nothing"); ok {
		t.Error("Expected no timestamp for unknown name")
	}

	before := time.Now().Add(-time.Second)
	s.Publish(LatestExport, map[string]int{"exported_count": 3})

	ts, ok := s.Timestamp(LatestExport)
	if !ok {
		t.Fatal("Expected timestamp after publish")
	}
	if ts.Before(before) || ts.After(time.Now().Add(time.Second)) {
		t.Errorf("Timestamp out of range: %s", ts)
	}
}

func TestStore_Config(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetConfig("backend.base_url", "http://localhost:8000"); err != nil {
		t.Fatalf("SetConfig failed: %v", err)
	}

	val, err := s.GetConfig("backend.base_url")
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if val != "http://localhost:8000" {
		t.Errorf("Expected stored value, got %q", val)
	}

	val2, _ := s.GetConfig("unknown")
	if val2 != "" {
		t.Errorf("Expected empty string for unknown key, got %q", val2)
	}

	s.SetConfig("backend.base_url", "http://prod:8000")
	val3, _ := s.GetConfig("backend.base_url")
	if val3 != "http://prod:8000" {
		t.Errorf("Expected overwrite, got %q", val3)
	}
}
