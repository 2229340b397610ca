package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "weatherdesk"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	return store
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "weatherdesk")

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Expected directory %s to exist", dir)
	}
	if store.Path() != filepath.Join(dir, "config.ini") {
		t.Errorf("Unexpected path %s", store.Path())
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("Settings file should not exist before first save")
	}
}

func TestLoadMissingFileUsesFallback(t *testing.T) {
	store := openTemp(t)

	got := store.Load("Delhi")
	if got.APIKey != "" {
		t.Errorf("Expected empty API key, got %q", got.APIKey)
	}
	if got.HasAPIKey() {
		t.Error("Expected credentials to be absent")
	}
	if got.LastCity != "Delhi" {
		t.Errorf("Expected fallback city 'Delhi', got %q", got.LastCity)
	}
}

func TestSaveAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		saved   bool
		wantKey string
	}{
		{"empty", "", false, ""},
		{"whitespace", "   ", false, ""},
		{"trimmed", "  abc123 \n", true, "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openTemp(t)

			saved, err := store.SaveAPIKey(tt.input)
			if err != nil {
				t.Fatalf("SaveAPIKey returned error: %v", err)
			}
			if saved != tt.saved {
				t.Errorf("Expected saved=%v, got %v", tt.saved, saved)
			}
			if got := store.Load("").APIKey; got != tt.wantKey {
				t.Errorf("Expected key %q, got %q", tt.wantKey, got)
			}
		})
	}
}

func TestBlankKeyKeepsExistingKey(t *testing.T) {
	store := openTemp(t)

	if _, err := store.SaveAPIKey("first"); err != nil {
		t.Fatalf("SaveAPIKey failed: %v", err)
	}
	if saved, _ := store.SaveAPIKey("  "); saved {
		t.Error("Blank key should not be saved")
	}
	if got := store.Load("").APIKey; got != "first" {
		t.Errorf("Expected key to remain 'first', got %q", got)
	}
}

func TestSaveLastCityOverwrites(t *testing.T) {
	store := openTemp(t)

	for _, city := range []string{"Delhi", "Mumbai", "Oslo"} {
		if err := store.SaveLastCity(city); err != nil {
			t.Fatalf("SaveLastCity(%s) failed: %v", city, err)
		}
	}
	if _, err := store.SaveAPIKey("k"); err != nil {
		t.Fatalf("SaveAPIKey failed: %v", err)
	}

	got := store.Load("Delhi")
	if got.LastCity != "Oslo" {
		t.Errorf("Expected last city 'Oslo', got %q", got.LastCity)
	}
	if got.APIKey != "k" {
		t.Errorf("Saving the key should keep lastCity intact, got key %q", got.APIKey)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("Failed to read settings file: %v", err)
	}
	if !strings.Contains(string(data), "[General]") {
		t.Errorf("Expected keys under [General], got:\n%s", data)
	}
	if strings.Count(string(data), "lastCity") != 1 {
		t.Errorf("Expected a single lastCity entry, got:\n%s", data)
	}
}

func TestLoadReadsExistingQSettingsFile(t *testing.T) {
	store := openTemp(t)
	content := "[General]\napiKey=fromfile\nlastCity=Pune\n"
	if err := os.WriteFile(store.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to seed settings: %v", err)
	}

	got := store.Load("Delhi")
	if got.APIKey != "fromfile" || got.LastCity != "Pune" {
		t.Errorf("Unexpected settings %+v", got)
	}
}

func TestLoadReadsSectionlessKeys(t *testing.T) {
	store := openTemp(t)
	if err := os.WriteFile(store.Path(), []byte("apiKey = plain\n"), 0o644); err != nil {
		t.Fatalf("Failed to seed settings: %v", err)
	}

	got := store.Load("Delhi")
	if got.APIKey != "plain" {
		t.Errorf("Expected key 'plain', got %q", got.APIKey)
	}
	if got.LastCity != "Delhi" {
		t.Errorf("Expected fallback city, got %q", got.LastCity)
	}
}
