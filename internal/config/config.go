// Package config loads the client configuration: defaults first, then an
// optional YAML file, then environment overrides.
package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "NEWSAGENT_CONFIG"
	baseURLEnv    = "NEWSAGENT_BASE_URL"
)

// Config holds the settings shared across commands.
type Config struct {
	BaseURL   string          `yaml:"baseUrl"`
	Poll      PollConfig      `yaml:"poll"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Summary   SummaryConfig   `yaml:"summary"`
	Rag       RagConfig       `yaml:"rag"`
}

// PollConfig bounds the task poll loop.
type PollConfig struct {
	IntervalSeconds int `yaml:"intervalSeconds"`
	TimeoutSeconds  int `yaml:"timeoutSeconds"`
	MaxAttempts     int `yaml:"maxAttempts"`
}

// Interval converts the configured cadence to a duration.
func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSeconds) * time.Second
}

// Timeout converts the configured deadline to a duration.
func (p PollConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// DiscoveryConfig carries the discoverer defaults.
type DiscoveryConfig struct {
	DaysBack    int `yaml:"daysBack"`
	MaxArticles int `yaml:"maxArticles"`
}

// SummaryConfig carries the summarizer word-count window.
type SummaryConfig struct {
	MinWords int `yaml:"minWords"`
	MaxWords int `yaml:"maxWords"`
}

// RagConfig carries retrieval-index defaults.
type RagConfig struct {
	ChunkSize    int `yaml:"chunkSize"`
	ChunkOverlap int `yaml:"chunkOverlap"`
	TopK         int `yaml:"topK"`
}

// Load reads YAML configuration (if present) and applies env overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	if v := os.Getenv(baseURLEnv); v != "" {
		cfg.BaseURL = v
	}

	return cfg
}

func mergeConfig(base, override Config) Config {
	if override.BaseURL != "" {
		base.BaseURL = override.BaseURL
	}
	if override.Poll.IntervalSeconds > 0 {
		base.Poll.IntervalSeconds = override.Poll.IntervalSeconds
	}
	if override.Poll.TimeoutSeconds > 0 {
		base.Poll.TimeoutSeconds = override.Poll.TimeoutSeconds
	}
	if override.Poll.MaxAttempts > 0 {
		base.Poll.MaxAttempts = override.Poll.MaxAttempts
	}
	if override.Discovery.DaysBack > 0 {
		base.Discovery.DaysBack = override.Discovery.DaysBack
	}
	if override.Discovery.MaxArticles > 0 {
		base.Discovery.MaxArticles = override.Discovery.MaxArticles
	}
	if override.Summary.MinWords > 0 {
		base.Summary.MinWords = override.Summary.MinWords
	}
	if override.Summary.MaxWords > 0 {
		base.Summary.MaxWords = override.Summary.MaxWords
	}
	if override.Rag.ChunkSize > 0 {
		base.Rag.ChunkSize = override.Rag.ChunkSize
	}
	if override.Rag.ChunkOverlap > 0 {
		base.Rag.ChunkOverlap = override.Rag.ChunkOverlap
	}
	if override.Rag.TopK > 0 {
		base.Rag.TopK = override.Rag.TopK
	}
	return base
}

func defaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8000",
		Poll: PollConfig{
			IntervalSeconds: 2,
			TimeoutSeconds:  600,
		},
		Discovery: DiscoveryConfig{DaysBack: 7, MaxArticles: 50},
		Summary:   SummaryConfig{MinWords: 30, MaxWords: 40},
		Rag:       RagConfig{ChunkSize: 1000, ChunkOverlap: 200, TopK: 5},
	}
}
