package config

import "testing"

func TestHistoryPathPrefersXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	t.Setenv("HOME", "/home/user")
	if got, want := HistoryPath(), "/state/cozenage/history"; got != want {
		t.Errorf("HistoryPath() = %q, want %q", got, want)
	}
}

func TestHistoryPathFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", "/home/user")
	if got, want := HistoryPath(), "/home/user/.local/state/cozenage/history"; got != want {
		t.Errorf("HistoryPath() = %q, want %q", got, want)
	}
}

func TestHistoryPathEmptyWithNeitherSet(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", "")
	if got := HistoryPath(); got != "" {
		t.Errorf("HistoryPath() = %q, want empty", got)
	}
}

func TestLibPath(t *testing.T) {
	t.Setenv("COZENAGE_LIB_PATH", "/opt/lib")
	if got, want := LibPath(), "/opt/lib"; got != want {
		t.Errorf("LibPath() = %q, want %q", got, want)
	}
}
