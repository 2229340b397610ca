package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/ini.v1"

	"weatherdesk/internal/logger"
	"weatherdesk/internal/models"
)

const (
	// FileName is the settings file inside the config directory
	FileName = "config.ini"

	// section QSettings uses for ungrouped keys
	generalSection = "General"

	keyAPIKey   = "apiKey"
	keyLastCity = "lastCity"
)

// Store persists the API key and last queried city in an INI file.
// Every save is written through to disk before it returns.
type Store struct {
	mu   sync.Mutex
	path string
	log  *logger.Logger
}

// DefaultDir returns the per-user settings directory for appName
func DefaultDir(appName string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// Open prepares a store rooted at dir, creating the directory if needed.
// The settings file itself is only created on first save.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}
	return &Store{
		path: filepath.Join(dir, FileName),
		log:  logger.Component("settings"),
	}, nil
}

// Path returns the location of the settings file
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted settings. A missing or unreadable file yields
// empty values; an empty last city is replaced by fallbackCity.
func (s *Store) Load(fallbackCity string) models.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		s.log.Error("Failed to read settings, using defaults", err, logger.Fields{"path": s.path})
		file = ini.Empty()
	}

	out := models.AppSettings{
		APIKey:   strings.TrimSpace(lookup(file, keyAPIKey)),
		LastCity: lookup(file, keyLastCity),
	}
	if out.LastCity == "" {
		out.LastCity = fallbackCity
	}

	s.log.Info("Settings loaded", logger.Fields{
		"path":      s.path,
		"hasApiKey": out.HasAPIKey(),
		"lastCity":  out.LastCity,
	})
	return out
}

// SaveAPIKey persists the trimmed key. Blank keys are ignored and report false.
func (s *Store) SaveAPIKey(key string) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, nil
	}
	if err := s.set(keyAPIKey, key); err != nil {
		return false, err
	}
	s.log.Info("API key saved")
	return true, nil
}

// SaveLastCity persists city, overwriting any previous value
func (s *Store) SaveLastCity(city string) error {
	return s.set(keyLastCity, city)
}

func (s *Store) set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return err
	}

	file.Section(generalSection).Key(key).SetValue(value)
	// Keep a single copy of the key once it lives under [General].
	file.Section(ini.DefaultSection).DeleteKey(key)

	if err := file.SaveTo(s.path); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) read() (*ini.File, error) {
	file, err := ini.LoadSources(ini.LoadOptions{Loose: true}, s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", s.path, err)
	}
	return file, nil
}

// lookup prefers [General] and falls back to keys written without a section
func lookup(file *ini.File, key string) string {
	if sec, err := file.GetSection(generalSection); err == nil && sec.HasKey(key) {
		return sec.Key(key).String()
	}
	return file.Section(ini.DefaultSection).Key(key).String()
}
