// Package registry provides a global registry of level packs.
// Packs register themselves in init() functions, allowing the CLI and the
// SSH server to discover them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/shapesynth/internal/catalog"
)

// PackInfo contains metadata about a registered pack.
type PackInfo struct {
	Name   string
	Title  string
	Levels int
}

// Factory returns the catalog of a pack.
// Factories may be called many times and should return a shared instance.
type Factory func() (*catalog.Catalog, error)

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]PackInfo)
	mu        sync.RWMutex
)

// Register adds a pack factory to the registry.
// Typically called from a pack's init() function.
// Panics if a pack with the same name is already registered or fails to load.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: pack %q already registered", name))
	}

	// Load once to collect metadata and fail fast on broken packs
	c, err := f()
	if err != nil {
		panic(fmt.Sprintf("registry: pack %q: %v", name, err))
	}

	factories[name] = f
	infos[name] = PackInfo{
		Name:   name,
		Title:  c.Title(),
		Levels: c.LevelCount(),
	}
}

// List returns information about all registered packs, sorted by name.
func List() []PackInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PackInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Open returns the catalog of a registered pack.
// Returns an error if the pack name is not registered.
func Open(name string) (*catalog.Catalog, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown pack %q: %w", name, catalog.ErrNotFound)
	}
	return f()
}

// Exists checks if a pack with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
