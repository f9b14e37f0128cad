// Package config loads the deployment configuration: data directory,
// source definitions, and AI provider credentials.
//
// Secrets never live in the config file. Provider entries name which
// backends are active; their API keys come from the environment (a local
// .env file is honored), so the file can be committed while the keys
// stay out of the repository.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mhartmann/frankenevents/internal/ai"
	"github.com/mhartmann/frankenevents/internal/source"
)

// DefaultDataDir is used when the config file names none.
const DefaultDataDir = "data"

// Config is the full deployment configuration for one scraper install.
type Config struct {
	DataDir string          `json:"data_dir,omitempty"`
	Sources []source.Config `json:"sources"`

	// AI maps provider name to its settings; a provider absent from
	// this map is simply not instantiated.
	AI map[string]ai.Settings `json:"ai,omitempty"`

	MaxEventsPerSource int `json:"max_events_per_source,omitempty"`
	CacheMaxEntries    int `json:"cache_max_entries,omitempty"`
	TrackerMaxEntries  int `json:"tracker_max_entries,omitempty"`
}

// keyEnvVars maps provider names to the environment variable holding
// their API key.
var keyEnvVars = map[string]string{
	"openai": "OPENAI_API_KEY",
	"groq":   "GROQ_API_KEY",
}

// Load reads and validates the configuration file. Environment variables
// (including a .env file next to the working directory) supply API keys
// for providers whose settings leave the key empty.
func Load(path string) (*Config, error) {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
}

func (c *Config) applyEnv() {
	for name, settings := range c.AI {
		if settings.APIKey != "" {
			continue
		}
		envVar, ok := keyEnvVars[name]
		if !ok {
			continue
		}
		settings.APIKey = os.Getenv(envVar)
		c.AI[name] = settings
	}
}

// validate catches deployment mistakes early. Per-source field checks
// live in the source factory; here only cross-source constraints apply.
func (c *Config) validate() error {
	seen := make(map[string]bool)
	for _, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("config: source with empty name")
		}
		if seen[src.Name] {
			return fmt.Errorf("config: duplicate source name %q", src.Name)
		}
		seen[src.Name] = true
	}
	return nil
}

// EnabledSources returns the sources flagged enabled, in file order.
func (c *Config) EnabledSources() []source.Config {
	var enabled []source.Config
	for _, src := range c.Sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}
	return enabled
}
