package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "frankenpost.json")

	c := NewCache(path, 0)
	c.Load() // missing file is fine

	if c.IsProcessed("key-1") {
		t.Fatal("fresh cache must not know key-1")
	}
	c.MarkProcessed("key-1")
	if !c.IsProcessed("key-1") {
		t.Fatal("key must be known after marking")
	}

	if err := c.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded := NewCache(path, 0)
	reloaded.Load()
	if !reloaded.IsProcessed("key-1") {
		t.Error("key must survive a save/load cycle")
	}
}

func TestCacheFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := NewCache(path, 0)
	c.MarkProcessed("key-1")
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var f struct {
		ProcessedKeys []string `json:"processed_keys"`
		UpdatedAt     string   `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("unexpected file format: %v", err)
	}
	if len(f.ProcessedKeys) != 1 || f.ProcessedKeys[0] != "key-1" {
		t.Errorf("unexpected keys: %v", f.ProcessedKeys)
	}
	if f.UpdatedAt == "" {
		t.Error("expected updated_at timestamp")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "cache.json"), 3)

	c.MarkProcessed("a")
	c.MarkProcessed("b")
	c.MarkProcessed("c")

	// Touch "a" so "b" becomes the oldest.
	if !c.IsProcessed("a") {
		t.Fatal("expected a to be cached")
	}

	c.MarkProcessed("d")

	if c.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.Len())
	}
	if c.IsProcessed("b") {
		t.Error("expected b to be evicted")
	}
	if !c.IsProcessed("a") || !c.IsProcessed("c") || !c.IsProcessed("d") {
		t.Error("expected a, c, d to survive")
	}
}

func TestCacheRecencySurvivesPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := NewCache(path, 10)
	for i := 0; i < 5; i++ {
		c.MarkProcessed(fmt.Sprintf("key-%d", i))
	}
	c.IsProcessed("key-0")
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded := NewCache(path, 5)
	reloaded.Load()
	// key-1 is now oldest; one more insert must evict it, not key-0.
	reloaded.MarkProcessed("key-5")
	if reloaded.IsProcessed("key-1") {
		t.Error("expected key-1 to be evicted after reload")
	}
	if !reloaded.IsProcessed("key-0") {
		t.Error("expected refreshed key-0 to survive after reload")
	}
}

func TestCacheCorruptFileIsNonFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCache(path, 0)
	c.Load()
	if c.Len() != 0 {
		t.Errorf("corrupt cache should load empty, got %d entries", c.Len())
	}
}

func TestCacheIgnoresEmptyKeys(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "cache.json"), 0)
	c.MarkProcessed("")
	if c.Len() != 0 {
		t.Error("empty keys must not be cached")
	}
}
