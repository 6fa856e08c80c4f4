package library

import (
	"strings"
	"testing"
)

func TestSearchPathOrderAndExtraDir(t *testing.T) {
	t.Setenv("COZENAGE_LIB_PATH", "/extra/one:/extra/two")
	paths := SearchPath()

	if len(paths) < 2 || paths[0] != "./lib" {
		t.Fatalf("SearchPath()[0] = %q, want ./lib", paths[0])
	}
	joined := strings.Join(paths, ":")
	if !strings.Contains(joined, "/extra/one") || !strings.Contains(joined, "/extra/two") {
		t.Errorf("SearchPath() = %v, missing COZENAGE_LIB_PATH entries", paths)
	}
	// Extra dirs must appear before the system-wide fallbacks.
	var extraIdx, systemIdx int = -1, -1
	for i, p := range paths {
		if p == "/extra/one" {
			extraIdx = i
		}
		if p == "/usr/lib/cozenage" {
			systemIdx = i
		}
	}
	if extraIdx == -1 || systemIdx == -1 || extraIdx > systemIdx {
		t.Errorf("expected COZENAGE_LIB_PATH entries before system dirs, got %v", paths)
	}
}

func TestLoadUnknownLibraryReturnsError(t *testing.T) {
	t.Setenv("COZENAGE_LIB_PATH", "")
	if err := Load(nil, "definitely-does-not-exist"); err == nil {
		t.Error("Load of a nonexistent library should error")
	}
}
