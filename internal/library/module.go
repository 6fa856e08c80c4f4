// Package library implements the dynamic shared-object loader backing
// `(import (NAME ...))` for any library name that isn't one of the
// built-in (base ...) libraries package primitives registers directly.
// A library ships as a .so/.dylib exporting a cozenage_library_init
// symbol; Load resolves that symbol and calls it with the
// importing environment.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"sync"

	"cozenage/internal/config"
	"cozenage/internal/env"
)

const initSymbol = "cozenage_library_init"

// appName names the application directory component of the system-wide
// search paths (/usr/lib/<app>, etc.) — kept distinct from the module
// path in case the binary is ever renamed independently of the import.
const appName = "cozenage"

// Loader resolves and loads shared-object libraries by name, caching
// already-loaded plugins so a repeated import is a no-op.
type Loader struct {
	mu     sync.Mutex
	loaded map[string]bool
}

var defaultLoader = &Loader{loaded: make(map[string]bool)}

// Load searches the standard library path order for name's shared object,
// opens it as a Go plugin, and invokes its cozenage_library_init(*env.Env)
// entry point against e. Returns an error describing every path tried if
// name cannot be found.
func Load(e *env.Env, name string) error {
	return defaultLoader.Load(e, name)
}

func (l *Loader) Load(e *env.Env, name string) error {
	l.mu.Lock()
	already := l.loaded[name]
	l.mu.Unlock()
	if already {
		return nil
	}

	var tried []string
	for _, dir := range SearchPath() {
		for _, ext := range libraryExtensions() {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err != nil {
				tried = append(tried, path)
				continue
			}
			if err := l.loadFrom(e, path); err != nil {
				return fmt.Errorf("library %q: %w", name, err)
			}
			l.mu.Lock()
			l.loaded[name] = true
			l.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("library %q not found (searched %v)", name, tried)
}

func (l *Loader) loadFrom(e *env.Env, path string) error {
	p, err := plugin.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	sym, err := p.Lookup(initSymbol)
	if err != nil {
		return fmt.Errorf("%s: missing %s: %w", path, initSymbol, err)
	}
	init, ok := sym.(func(*env.Env))
	if !ok {
		return fmt.Errorf("%s: %s has the wrong signature", path, initSymbol)
	}
	init(e)
	return nil
}

// SearchPath returns the ordered directories a library name is resolved
// against: ./lib, ../lib/<app>, $COZENAGE_LIB_PATH (colon-separated, like
// PATH), then the three conventional system locations.
func SearchPath() []string {
	dirs := []string{
		"./lib",
		filepath.Join("..", "lib", appName),
	}
	if extra := config.LibPath(); extra != "" {
		dirs = append(dirs, filepath.SplitList(extra)...)
	}
	dirs = append(dirs,
		filepath.Join("/usr/lib", appName),
		filepath.Join("/usr/lib64", appName),
		filepath.Join("/usr/local/lib", appName),
	)
	return dirs
}

func libraryExtensions() []string {
	return []string{".so", ".dylib"}
}
