// Package catalog holds the read-only product, category and brand data the
// storefront serves. A snapshot is loaded from a Source and swapped
// atomically on reload.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meshur/storefront-backend/internal/app/model"
	"github.com/meshur/storefront-backend/pkg/logger"
)

type Snapshot struct {
	Products   []model.Product
	Categories []model.Category
	Brands     []model.Brand
	LoadedAt   time.Time
}

type Catalog struct {
	mu     sync.RWMutex
	source Source
	snap   *Snapshot
}

// New returns an empty catalog; call Reload before serving.
func New(source Source) *Catalog {
	return &Catalog{
		source: source,
		snap: &Snapshot{
			Products:   []model.Product{},
			Categories: []model.Category{},
			Brands:     []model.Brand{},
		},
	}
}

// NewFromSnapshot wraps an already built snapshot. Reload is a no-op without a source.
func NewFromSnapshot(snap *Snapshot) *Catalog {
	link(snap)
	return &Catalog{snap: snap}
}

// Reload fetches a fresh snapshot. On failure the previous snapshot stays in place.
func (c *Catalog) Reload(ctx context.Context) error {
	if c.source == nil {
		return nil
	}

	start := time.Now()
	snap, err := c.source.Load(ctx)
	if err != nil {
		logger.Error("Failed to load catalog", err, map[string]interface{}{
			"source": c.source.Name(),
		})
		return fmt.Errorf("failed to load catalog from %s: %w", c.source.Name(), err)
	}
	link(snap)
	snap.LoadedAt = time.Now()

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	logger.Info("Catalog loaded", map[string]interface{}{
		"source":      c.source.Name(),
		"products":    len(snap.Products),
		"categories":  len(snap.Categories),
		"brands":      len(snap.Brands),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// Snapshot returns the current snapshot. Its slices are shared and must not
// be modified.
func (c *Catalog) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *Catalog) Products() []model.Product   { return c.Snapshot().Products }
func (c *Catalog) Categories() []model.Category { return c.Snapshot().Categories }
func (c *Catalog) Brands() []model.Brand         { return c.Snapshot().Brands }

// link fills product brand and category references from the id fields when
// the fixtures leave them out.
func link(snap *Snapshot) {
	brands := make(map[uint]*model.Brand, len(snap.Brands))
	for i := range snap.Brands {
		brands[snap.Brands[i].ID] = &snap.Brands[i]
	}

	categories := make(map[uint]model.Category)
	for _, c := range model.FlattenCategories(snap.Categories) {
		c.Children = nil
		categories[c.ID] = c
	}

	for i := range snap.Products {
		p := &snap.Products[i]
		if p.Brand == nil && p.BrandID != nil {
			if b, ok := brands[*p.BrandID]; ok {
				brand := *b
				p.Brand = &brand
			}
		}
		if p.Category == nil {
			if c, ok := categories[p.CategoryID]; ok {
				category := c
				p.Category = &category
			}
		}
	}
}
