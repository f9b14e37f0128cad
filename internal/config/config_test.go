package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"data_dir": "/var/lib/frankenevents",
		"sources": [
			{"name": "hofer-anzeiger", "url": "https://example.org/feed.xml", "type": "rss", "enabled": true},
			{"name": "frankenpost", "url": "https://example.org/events", "type": "frankenpost", "enabled": false}
		],
		"ai": {
			"ollama": {"endpoint": "http://localhost:11434"}
		},
		"cache_max_entries": 200
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DataDir != "/var/lib/frankenevents" {
		t.Errorf("unexpected data dir: %q", cfg.DataDir)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(cfg.Sources))
	}
	if cfg.CacheMaxEntries != 200 {
		t.Errorf("unexpected cache limit: %d", cfg.CacheMaxEntries)
	}
	if cfg.AI["ollama"].Endpoint != "http://localhost:11434" {
		t.Errorf("unexpected ollama settings: %+v", cfg.AI["ollama"])
	}

	enabled := cfg.EnabledSources()
	if len(enabled) != 1 || enabled[0].Name != "hofer-anzeiger" {
		t.Errorf("unexpected enabled sources: %+v", enabled)
	}
}

func TestLoadDefaultsDataDir(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{"sources": []}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("expected default data dir, got %q", cfg.DataDir)
	}
}

func TestLoadAPIKeyFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := Load(writeConfig(t, `{"ai": {"openai": {"model": "gpt-4o-mini"}}}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AI["openai"].APIKey != "sk-from-env" {
		t.Errorf("expected key from environment, got %q", cfg.AI["openai"].APIKey)
	}
	if cfg.AI["openai"].Model != "gpt-4o-mini" {
		t.Errorf("model setting lost: %+v", cfg.AI["openai"])
	}
}

func TestLoadExplicitKeyWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := Load(writeConfig(t, `{"ai": {"openai": {"api_key": "sk-explicit"}}}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AI["openai"].APIKey != "sk-explicit" {
		t.Errorf("explicit key must win, got %q", cfg.AI["openai"].APIKey)
	}
}

func TestLoadRejectsDuplicateSourceNames(t *testing.T) {
	path := writeConfig(t, `{
		"sources": [
			{"name": "a", "url": "https://example.org/1", "type": "rss"},
			{"name": "a", "url": "https://example.org/2", "type": "rss"}
		]
	}`)

	if _, err := Load(path); err == nil {
		t.Error("expected duplicate-name error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	if _, err := Load(writeConfig(t, "{broken")); err == nil {
		t.Error("expected error for corrupt config")
	}
}
