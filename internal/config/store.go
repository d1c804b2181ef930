package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// SettingsStore reads and writes the persisted user settings file.
type SettingsStore struct {
	Fs   afero.Fs
	Path string
}

// Load returns the persisted settings. A missing file yields an empty map;
// an unreadable or malformed file is an error.
func (s *SettingsStore) Load() (map[string]any, error) {
	exists, err := afero.Exists(s.Fs, s.Path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", s.Path, err)
	}
	if !exists {
		return map[string]any{}, nil
	}

	v := viper.New()
	v.SetFs(s.Fs)
	v.SetConfigFile(s.Path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return v.AllSettings(), nil
}

// Save replaces the settings file with settings.
func (s *SettingsStore) Save(settings map[string]any) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.Fs.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := afero.WriteFile(s.Fs, s.Path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	return nil
}

// Set stores value under a dotted key such as "mysql.user".
func (s *SettingsStore) Set(key string, value any) error {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(key)), ".")
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("invalid settings key %q", key)
		}
	}

	settings, err := s.Load()
	if err != nil {
		return err
	}

	node := settings
	for _, p := range parts[:len(parts)-1] {
		next, ok := node[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			node[p] = next
		}
		node = next
	}
	node[parts[len(parts)-1]] = value

	return s.Save(settings)
}
