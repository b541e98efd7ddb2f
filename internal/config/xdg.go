// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// DBEnvVar overrides the database location.
const DBEnvVar = "MATHDRILL_DB"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDBPath returns the SQLite path, honoring MATHDRILL_DB.
func DefaultDBPath() string {
	if p := os.Getenv(DBEnvVar); p != "" {
		return p
	}
	return filepath.Join(XDGDataHome(), "mathdrill", "mathdrill.db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "mathdrill", "config.toml")
}
