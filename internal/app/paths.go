package app

import (
	"os"
	"path/filepath"
)

// DefaultDataDir returns the directory used for the database, log file and
// cloned tldr repository when config.toml sets no `data_dir`. If the home
// directory can't be determined it falls back to a directory under the
// system temp dir rather than failing outright.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), ".intelli-shell"))
	}
	return filepath.Clean(filepath.Join(home, ".local", "share", "intelli-shell"))
}

// DefaultConfigPath returns where config.toml is read from when the CLI
// isn't given an explicit path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".intelli-shell", "config.toml")
	}
	return filepath.Join(home, ".config", "intelli-shell", "config.toml")
}
