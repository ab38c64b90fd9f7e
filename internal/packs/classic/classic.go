// Package classic embeds the default ShapeSynth level pack and registers it
// as "classic".
package classic

import (
	_ "embed"
	"sync"

	"github.com/vovakirdan/shapesynth/internal/catalog"
	"github.com/vovakirdan/shapesynth/internal/registry"
)

// Name is the registry name of the pack.
const Name = "classic"

//go:embed classic.yaml
var classicYAML []byte

var (
	once    sync.Once
	shared  *catalog.Catalog
	loadErr error
)

// Catalog returns the shared classic catalog.
func Catalog() (*catalog.Catalog, error) {
	once.Do(func() {
		var p catalog.Pack
		p, loadErr = catalog.ParsePack(classicYAML)
		if loadErr != nil {
			return
		}
		shared, loadErr = catalog.New(p)
	})
	return shared, loadErr
}

// YAML returns the raw embedded pack, e.g. for exporting as a template.
func YAML() []byte {
	out := make([]byte, len(classicYAML))
	copy(out, classicYAML)
	return out
}

func init() {
	registry.Register(Name, Catalog)
}
