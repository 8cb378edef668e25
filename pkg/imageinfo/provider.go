// Package imageinfo supplies externally resolved image dimensions to the
// resolution engine. The engine itself never touches the filesystem; hosts
// use a Provider to turn an image reference into a concrete size and hand it
// over as plain data.
package imageinfo

import (
	"fmt"
	"image"
	"os"
	"sync"

	// Register the decoders for the formats the host accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dixieflatline76/SmartRes/pkg/resolution"
)

// Provider resolves an image reference to its pixel dimensions.
type Provider interface {
	Lookup(path string) (*resolution.ImageDimensions, error)
}

// FileProvider reads dimensions from image file headers. Results are cached
// per path; a UI can probe the same connected image on every redraw without
// re-reading the file.
type FileProvider struct {
	mu    sync.RWMutex
	cache map[string]resolution.ImageDimensions
}

// NewFileProvider creates an empty FileProvider.
func NewFileProvider() *FileProvider {
	return &FileProvider{
		cache: make(map[string]resolution.ImageDimensions),
	}
}

// Lookup returns the dimensions of the image at path. Only the header is
// decoded, never the pixel data.
func (p *FileProvider) Lookup(path string) (*resolution.ImageDimensions, error) {
	p.mu.RLock()
	if dims, ok := p.cache[path]; ok {
		p.mu.RUnlock()
		return &dims, nil
	}
	p.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image config: %w", err)
	}

	dims := resolution.ImageDimensions{Width: cfg.Width, Height: cfg.Height}

	p.mu.Lock()
	p.cache[path] = dims
	p.mu.Unlock()

	return &dims, nil
}

// Invalidate forgets a cached path, e.g. after the file was rewritten.
func (p *FileProvider) Invalidate(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cache, path)
}
