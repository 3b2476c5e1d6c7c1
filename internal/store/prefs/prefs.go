// Package prefs persists lightweight user preferences between runs.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Mode is the light/dark half of a theme.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// DefaultPrimaryColor is the accent color used until the user picks one.
const DefaultPrimaryColor = "#22c55e"

// Theme is the UI color theme: a mode plus an accent color.
type Theme struct {
	Mode         Mode   `json:"mode"`
	PrimaryColor string `json:"primary_color"`
}

// DefaultTheme is light mode with the default accent.
func DefaultTheme() Theme {
	return Theme{Mode: ModeLight, PrimaryColor: DefaultPrimaryColor}
}

// Keys match what the web client stored under.
const (
	themeKey   = "nalodao-theme"
	sessionKey = "nalodao-session"
)

// ThemeStore loads and saves the selected theme. Load reports found=false
// when no theme was ever saved.
type ThemeStore interface {
	Load() (theme Theme, found bool, err error)
	Save(theme Theme) error
}

// SessionStore persists the access token of the signed-in session so a
// restart can resolve it again.
type SessionStore interface {
	LoadToken() (token string, found bool, err error)
	SaveToken(token string) error
	ClearToken() error
}

// SchemeSource reports the operating system's preferred color scheme. The
// initial value is consulted only when no saved theme exists; Watch delivers
// later scheme changes for the rest of the process lifetime.
type SchemeSource interface {
	PrefersDark() bool
	Watch(fn func(dark bool)) (stop func())
}

// FileStore keeps preferences in a JSON file of keyed values.
type FileStore struct {
	path string
}

// NewFileStore places the preferences file under the user's config
// directory.
func NewFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	return NewFileStoreAt(filepath.Join(dir, "nalodao", "preferences.json")), nil
}

// NewFileStoreAt uses an explicit file path.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}
	values := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &values); err != nil {
		// A corrupt file is treated as empty rather than blocking startup.
		return map[string]json.RawMessage{}, nil
	}
	return values, nil
}

func (s *FileStore) write(values map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating preferences dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}

// Load returns the saved theme, if any. A theme with an unknown mode is
// ignored; a missing accent color gets the default.
func (s *FileStore) Load() (Theme, bool, error) {
	values, err := s.read()
	if err != nil {
		return Theme{}, false, err
	}
	raw, ok := values[themeKey]
	if !ok {
		return Theme{}, false, nil
	}

	var theme Theme
	if err := json.Unmarshal(raw, &theme); err != nil {
		return Theme{}, false, nil
	}
	if theme.Mode != ModeLight && theme.Mode != ModeDark {
		return Theme{}, false, nil
	}
	if theme.PrimaryColor == "" {
		theme.PrimaryColor = DefaultPrimaryColor
	}
	return theme, true, nil
}

// Save writes the theme, creating the parent directory when needed.
func (s *FileStore) Save(theme Theme) error {
	if theme.PrimaryColor == "" {
		theme.PrimaryColor = DefaultPrimaryColor
	}

	values, err := s.read()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(theme)
	if err != nil {
		return fmt.Errorf("encoding theme: %w", err)
	}
	values[themeKey] = raw
	return s.write(values)
}

// LoadToken returns the saved session token, if any.
func (s *FileStore) LoadToken() (string, bool, error) {
	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	raw, ok := values[sessionKey]
	if !ok {
		return "", false, nil
	}
	var token string
	if err := json.Unmarshal(raw, &token); err != nil || token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// SaveToken persists the session token.
func (s *FileStore) SaveToken(token string) error {
	values, err := s.read()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	values[sessionKey] = raw
	return s.write(values)
}

// ClearToken removes the saved session token.
func (s *FileStore) ClearToken() error {
	values, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := values[sessionKey]; !ok {
		return nil
	}
	delete(values, sessionKey)
	return s.write(values)
}

// EnvScheme is a best-effort SchemeSource reading desktop environment hints.
// It defaults to light when nothing indicates otherwise. Environment
// variables do not change mid-process, so Watch never fires.
type EnvScheme struct{}

func (EnvScheme) PrefersDark() bool {
	for _, key := range []string{"NALODAO_COLOR_SCHEME", "GTK_THEME"} {
		if strings.Contains(strings.ToLower(os.Getenv(key)), "dark") {
			return true
		}
	}
	return false
}

func (EnvScheme) Watch(func(dark bool)) func() {
	return func() {}
}
