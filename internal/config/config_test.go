package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(baseURLEnv, "")

	cfg := Load()
	if cfg.BaseURL != "http://localhost:8000" {
		t.Errorf("Unexpected default base URL: %s", cfg.BaseURL)
	}
	if cfg.Poll.Interval() != 2*time.Second {
		t.Errorf("Expected 2s poll interval, got %s", cfg.Poll.Interval())
	}
	if cfg.Poll.Timeout() != 10*time.Minute {
		t.Errorf("Expected 10m poll timeout, got %s", cfg.Poll.Timeout())
	}
	if cfg.Discovery.DaysBack != 7 || cfg.Discovery.MaxArticles != 50 {
		t.Errorf("Unexpected discovery defaults: %+v", cfg.Discovery)
	}
	if cfg.Summary.MinWords != 30 || cfg.Summary.MaxWords != 40 {
		t.Errorf("Unexpected summary defaults: %+v", cfg.Summary)
	}
}

func TestLoad_FileMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newsagent.yaml")
	os.WriteFile(path, []byte("baseUrl: http://news.internal:9000\npoll:\n  intervalSeconds: 5\n"), 0600)

	t.Setenv(configPathEnv, path)
	t.Setenv(baseURLEnv, "")

	cfg := Load()
	if cfg.BaseURL != "http://news.internal:9000" {
		t.Errorf("File value should override default, got %s", cfg.BaseURL)
	}
	if cfg.Poll.IntervalSeconds != 5 {
		t.Errorf("File poll interval should apply, got %d", cfg.Poll.IntervalSeconds)
	}
	// Untouched fields keep their defaults.
	if cfg.Poll.TimeoutSeconds != 600 {
		t.Errorf("Default timeout should survive merge, got %d", cfg.Poll.TimeoutSeconds)
	}
	if cfg.Rag.ChunkSize != 1000 {
		t.Errorf("Default rag config should survive merge, got %d", cfg.Rag.ChunkSize)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newsagent.yaml")
	os.WriteFile(path, []byte("baseUrl: http://from-file:9000\n"), 0600)

	t.Setenv(configPathEnv, path)
	t.Setenv(baseURLEnv, "http://from-env:7000")

	cfg := Load()
	if cfg.BaseURL != "http://from-env:7000" {
		t.Errorf("Env must beat file, got %s", cfg.BaseURL)
	}
}

func TestLoad_BadFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	os.WriteFile(path, []byte(":::: not yaml"), 0600)

	t.Setenv(configPathEnv, path)
	t.Setenv(baseURLEnv, "")

	cfg := Load()
	if cfg.BaseURL != "http://localhost:8000" {
		t.Errorf("Broken file should fall back to defaults, got %s", cfg.BaseURL)
	}
}
