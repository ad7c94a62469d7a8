package service

import (
	"sync"
	"time"

	"github.com/meshur/storefront-backend/internal/app/model"
	"github.com/meshur/storefront-backend/internal/catalog"
	"github.com/meshur/storefront-backend/internal/websocket"
)

func floatPtr(f float64) *float64 { return &f }
func uintPtr(u uint) *uint        { return &u }

func day(s string) model.Timestamp {
	t, _ := time.Parse("2006-01-02", s)
	return model.Timestamp{Time: t}
}

// testCatalog: two brands, a small category tree and five products.
func testCatalog() *catalog.Catalog {
	return catalog.NewFromSnapshot(&catalog.Snapshot{
		Brands: []model.Brand{
			{ID: 1, Name: "Koton", Slug: "koton"},
			{ID: 2, Name: "Mavi", Slug: "mavi"},
		},
		Categories: []model.Category{
			{ID: 1, Name: "Giyim", Slug: "giyim", Image: &model.Image{ID: 1, URL: "/g.jpg"}, ProductCount: 3, Children: []model.Category{
				{ID: 2, Name: "Elbise", Slug: "elbise", ParentCategoryID: uintPtr(1)},
			}},
			{ID: 3, Name: "Ev", Slug: "ev", Image: &model.Image{ID: 2, URL: "/e.jpg"}, ProductCount: 9},
			{ID: 4, Name: "Çocuk", Slug: "cocuk"},
		},
		Products: []model.Product{
			{ID: 1, Name: "Yazlık Elbise", Slug: "yazlik-elbise", BrandID: uintPtr(1), CategoryID: 2, Rating: 4.6, ReviewCount: 10, CreatedAt: day("2025-05-01"),
				Variants: []model.ProductVariant{{ID: 101, Price: 150, Stock: 3}, {ID: 102, Price: 180, Stock: 0}}},
			{ID: 2, Name: "Kot Pantolon", Slug: "kot-pantolon", BrandID: uintPtr(2), CategoryID: 1, Rating: 4.2, ReviewCount: 300, CreatedAt: day("2024-11-01"),
				Variants: []model.ProductVariant{{ID: 201, Price: 900, CompareAtPrice: floatPtr(1000), Stock: 5}}},
			{ID: 3, Name: "Tişört", Slug: "tisort", BrandID: uintPtr(1), CategoryID: 1, Rating: 3.9, ReviewCount: 50, CreatedAt: day("2025-03-01"),
				Variants: []model.ProductVariant{{ID: 301, Price: 100, Stock: 10}}},
			{ID: 4, Name: "Çay Bardağı", Slug: "cay-bardagi", CategoryID: 3, Rating: 4.9, ReviewCount: 800, CreatedAt: day("2023-01-01"),
				Variants: []model.ProductVariant{{ID: 401, Price: 190, Stock: 100}}},
			{ID: 5, Name: "Mini Elbise", Slug: "mini-elbise", BrandID: uintPtr(2), CategoryID: 2, Rating: 4.0, ReviewCount: 1, CreatedAt: day("2025-07-01"),
				Variants: []model.ProductVariant{{ID: 501, Price: 250, Stock: 1}}},
		},
	})
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *recordingPublisher) Publish(e websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
