// Package gallery holds the session's generated bundles, most recent first.
// Nothing is persisted; a Gallery lives as long as its owner.
package gallery

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fpang/logonova/internal/brand"
)

var (
	// ErrNotFound is returned for an unknown bundle id.
	ErrNotFound = errors.New("bundle not found")
	// ErrMotionAlreadyAttached is returned when a bundle already carries a motion asset.
	ErrMotionAlreadyAttached = errors.New("motion asset already attached")
)

// Gallery is safe for concurrent use. Bundles are returned as copies; the
// only mutation after insertion is AttachMotion.
type Gallery struct {
	mu      sync.RWMutex
	bundles []*brand.AssetBundle
	byID    map[string]*brand.AssetBundle
}

// New creates an empty Gallery.
func New() *Gallery {
	return &Gallery{byID: make(map[string]*brand.AssetBundle)}
}

// PrependBatch inserts a whole batch at the head, keeping the batch's own
// order. Either every bundle is inserted or none is.
func (g *Gallery) PrependBatch(batch []brand.AssetBundle) error {
	seen := make(map[string]bool, len(batch))
	for _, b := range batch {
		if b.ID == "" {
			return errors.New("bundle has empty id")
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate bundle id %s in batch", b.ID)
		}
		seen[b.ID] = true
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for id := range seen {
		if _, ok := g.byID[id]; ok {
			return fmt.Errorf("bundle id %s already in gallery", id)
		}
	}

	head := make([]*brand.AssetBundle, 0, len(batch)+len(g.bundles))
	for i := range batch {
		b := batch[i]
		g.byID[b.ID] = &b
		head = append(head, &b)
	}
	g.bundles = append(head, g.bundles...)
	return nil
}

// Get returns a copy of the bundle with the given id.
func (g *Gallery) Get(id string) (brand.AssetBundle, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	b, ok := g.byID[id]
	if !ok {
		return brand.AssetBundle{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *b, nil
}

// List returns copies of every bundle, most recent first.
func (g *Gallery) List() []brand.AssetBundle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]brand.AssetBundle, len(g.bundles))
	for i, b := range g.bundles {
		out[i] = *b
	}
	return out
}

// Len returns the number of bundles.
func (g *Gallery) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.bundles)
}

// AttachMotion sets a bundle's motion asset. A motion asset goes from absent
// to present exactly once.
func (g *Gallery) AttachMotion(id string, asset *brand.MotionAsset) error {
	if asset == nil || asset.Empty() {
		return errors.New("motion asset is empty")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if b.HasMotion() {
		return ErrMotionAlreadyAttached
	}
	b.MotionAsset = asset
	return nil
}
