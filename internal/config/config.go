// Package config centralizes the environment variables spec.md §6 names:
// COZENAGE_LIB_PATH (extra shared-library search directory) and the
// HOME/XDG_STATE_HOME pair used to locate the REPL history file.
package config

import (
	"os"
	"path/filepath"
)

const appName = "cozenage"

// LibPath returns $COZENAGE_LIB_PATH, or "" if unset.
func LibPath() string {
	return os.Getenv("COZENAGE_LIB_PATH")
}

// HistoryPath returns the REPL history file path:
// $XDG_STATE_HOME/cozenage/history if XDG_STATE_HOME is set, else
// $HOME/.local/state/cozenage/history. Returns "" if neither is set.
func HistoryPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "history")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".local", "state", appName, "history")
	}
	return ""
}
