package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AK067CSE/newsagent/internal/api"
	"github.com/AK067CSE/newsagent/internal/artifact"
	"github.com/AK067CSE/newsagent/internal/config"
	"github.com/AK067CSE/newsagent/internal/observe"
	"github.com/AK067CSE/newsagent/internal/pipeline"
	"github.com/AK067CSE/newsagent/internal/task"
)

func getStore() *artifact.Store {
	home, _ := os.UserHomeDir()
	store, err := artifact.Open(filepath.Join(home, ".newsagent", "cache.db"))
	if err != nil {
		fmt.Printf("Failed to open cache: %v\n", err)
		os.Exit(1)
	}
	return store
}

func newObserver() *observe.Observer {
	if ciMode {
		return observe.NewJSON(os.Stdout, verbose)
	}
	return observe.New(os.Stdout, verbose)
}

// resolveBaseURL prefers the --base-url flag, then YAML/env config, then the
// backend.base_url key in the local cache db.
func resolveBaseURL(cfg config.Config, store *artifact.Store) string {
	if baseURL != "" {
		return baseURL
	}
	if v, err := store.GetConfig("backend.base_url"); err == nil && v != "" {
		return v
	}
	return cfg.BaseURL
}

func buildPipeline(obs *observe.Observer, store *artifact.Store) (*pipeline.Client, config.Config) {
	cfg := config.Load()

	apiClient := api.New(resolveBaseURL(cfg, store))
	policy := task.Policy{
		Interval:    cfg.Poll.Interval(),
		Timeout:     cfg.Poll.Timeout(),
		MaxAttempts: cfg.Poll.MaxAttempts,
	}
	poller := task.New(apiClient, policy, obs.Log())

	return pipeline.New(apiClient, poller, store, obs), cfg
}
