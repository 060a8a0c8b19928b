// Package prefs persists the visitor's language and music choices between runs
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/glimmer/i18n"
)

// Preferences mirrors the flags the landing page kept in local storage
type Preferences struct {
	Language string `toml:"language"`
	Music    bool   `toml:"music"`
}

// Default returns first-visit preferences
func Default() Preferences {
	return Preferences{Language: i18n.DefaultLanguage}
}

// DefaultPath returns $XDG_CONFIG_HOME/glimmer/prefs.toml or the OS equivalent
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("prefs: locate config dir: %w", err)
	}
	return filepath.Join(dir, "glimmer", "prefs.toml"), nil
}

// Store reads and writes preferences at a fixed path
type Store struct {
	path string
}

// NewStore creates a store for path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Load returns stored preferences, defaults when the file does not exist yet
func (s *Store) Load() (Preferences, error) {
	p := Default()

	if _, err := toml.DecodeFile(s.path, &p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("prefs: read %s: %w", s.path, err)
	}

	if p.Language == "" {
		p.Language = i18n.DefaultLanguage
	}
	return p, nil
}

// Save writes p through a temp file and rename so a crash never leaves a torn file
func (s *Store) Save(p Preferences) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prefs: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("prefs: temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := toml.NewEncoder(tmp).Encode(p); err != nil {
		tmp.Close()
		return fmt.Errorf("prefs: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("prefs: close temp: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("prefs: replace %s: %w", s.path, err)
	}
	return nil
}
