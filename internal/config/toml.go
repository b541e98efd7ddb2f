// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
}

// PracticeConfig maps practice-related settings. Nil fields are unset and
// the same shape doubles as a partial settings update.
type PracticeConfig struct {
	Mode         *string  `toml:"mode,omitempty"`
	Timed        *bool    `toml:"timed,omitempty"`
	DigitRange   *int     `toml:"digits,omitempty"`
	ChainLength  *int     `toml:"chain-length,omitempty"`
	TargetTime   *float64 `toml:"target-time,omitempty"`
	TargetStreak *int     `toml:"target-streak,omitempty"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// LoadSettings reads settings from path merged over the defaults. A corrupt
// file yields the defaults together with the decode error.
func LoadSettings(path string) (model.Settings, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return model.DefaultSettings(), err
	}
	return Apply(model.DefaultSettings(), cfg.Practice), nil
}

// Apply overlays the set, valid fields of p on base. Invalid values keep
// the base value.
func Apply(base model.Settings, p PracticeConfig) model.Settings {
	out := base
	if p.DigitRange != nil && *p.DigitRange >= 1 && *p.DigitRange <= 3 {
		out.DigitRange = *p.DigitRange
	}
	if p.ChainLength != nil && *p.ChainLength > 0 {
		out.ChainLength = *p.ChainLength
	}
	if p.TargetTime != nil && *p.TargetTime > 0 {
		out.TargetTime = *p.TargetTime
	}
	if p.TargetStreak != nil && *p.TargetStreak > 0 {
		out.TargetStreak = *p.TargetStreak
	}
	return out
}

// SaveSettings writes s into the [practice] table at path, keeping the
// mode and timed keys already present in the file.
func SaveSettings(path string, s model.Settings) error {
	existing, err := LoadConfig(path)
	if err != nil {
		existing = FileConfig{}
	}
	existing.Practice.DigitRange = &s.DigitRange
	existing.Practice.ChainLength = &s.ChainLength
	existing.Practice.TargetTime = &s.TargetTime
	existing.Practice.TargetStreak = &s.TargetStreak
	return writeConfig(path, existing)
}

// ResetSettings rewrites path with default settings only.
func ResetSettings(path string) error {
	d := model.DefaultSettings()
	return writeConfig(path, FileConfig{Practice: PracticeConfig{
		DigitRange:   &d.DigitRange,
		ChainLength:  &d.ChainLength,
		TargetTime:   &d.TargetTime,
		TargetStreak: &d.TargetStreak,
	}})
}

func writeConfig(path string, cfg FileConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := toml.NewEncoder(tmpFile).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
