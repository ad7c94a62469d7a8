package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

type ProductStatus int

const (
	ProductStatusDraft    ProductStatus = 0
	ProductStatusActive   ProductStatus = 1
	ProductStatusInactive ProductStatus = 2
	ProductStatusDeleted  ProductStatus = 3
)

// PlaceholderImageURL is served when a product has no thumbnails.
const PlaceholderImageURL = "/images/placeholder-product.jpg"

type Product struct {
	ID             uint             `json:"id"`
	Name           string           `json:"name"`
	Slug           string           `json:"slug"`
	Description    *string          `json:"description"`
	BrandID        *uint            `json:"brand_id"`
	Brand          *Brand           `json:"brand"`
	CategoryID     uint             `json:"category_id"`
	Category       *Category        `json:"category"`
	Variants       []ProductVariant `json:"variants"`
	PreviewVideoID *uint            `json:"preview_video_id"`
	Status         ProductStatus    `json:"status"`
	Badge          *string          `json:"badge,omitempty"`
	Rating         float64          `json:"rating,omitempty"`
	ReviewCount    int              `json:"review_count,omitempty"`
	CreatedAt      Timestamp        `json:"created_at"`
	UpdatedAt      Timestamp        `json:"updated_at"`
}

type ProductVariant struct {
	ID             uint            `json:"id"`
	Price          float64         `json:"price"`
	CompareAtPrice *float64        `json:"compare_at_price,omitempty"`
	Stock          int             `json:"stock"`
	Barcode        string          `json:"barcode"`
	SKU            string          `json:"sku"`
	Thumbnails     []Image         `json:"thumbnails"`
	Options        []VariantOption `json:"options"`
}

type VariantOption struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Value string `json:"value"`
}

type Image struct {
	ID     uint    `json:"id"`
	URL    string  `json:"url"`
	Alt    *string `json:"alt,omitempty"`
	Width  *int    `json:"width,omitempty"`
	Height *int    `json:"height,omitempty"`
}

// Variant returns the variant with the given id.
func (p *Product) Variant(id uint) (ProductVariant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return ProductVariant{}, false
}

// MinVariantPrice reports the cheapest variant price; ok is false when the
// product has no variants.
func (p *Product) MinVariantPrice() (price float64, ok bool) {
	if len(p.Variants) == 0 {
		return 0, false
	}
	price = p.Variants[0].Price
	for _, v := range p.Variants[1:] {
		if v.Price < price {
			price = v.Price
		}
	}
	return price, true
}

// LowestPrice is the display price: the cheapest variant, or 0 without variants.
func (p *Product) LowestPrice() float64 {
	price, _ := p.MinVariantPrice()
	return price
}

// HighestCompareAtPrice returns the largest compare-at price across variants.
func (p *Product) HighestCompareAtPrice() *float64 {
	var highest *float64
	for _, v := range p.Variants {
		if v.CompareAtPrice == nil {
			continue
		}
		if highest == nil || *v.CompareAtPrice > *highest {
			price := *v.CompareAtPrice
			highest = &price
		}
	}
	return highest
}

// HasDiscount reports whether any variant is sold under its compare-at price.
func (p *Product) HasDiscount() bool {
	for _, v := range p.Variants {
		if v.CompareAtPrice != nil && *v.CompareAtPrice > v.Price {
			return true
		}
	}
	return false
}

func (p *Product) InStock() bool {
	for _, v := range p.Variants {
		if v.Stock > 0 {
			return true
		}
	}
	return false
}

func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// MainImage returns the first thumbnail of the first variant.
func (p *Product) MainImage() string {
	if len(p.Variants) > 0 && len(p.Variants[0].Thumbnails) > 0 {
		return p.Variants[0].Thumbnails[0].URL
	}
	return PlaceholderImageURL
}

type ImageRef struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// AllImages lists every distinct thumbnail URL across variants, first occurrence wins.
func (p *Product) AllImages() []ImageRef {
	images := []ImageRef{}
	seen := make(map[string]bool)
	for _, v := range p.Variants {
		for _, img := range v.Thumbnails {
			if seen[img.URL] {
				continue
			}
			seen[img.URL] = true
			alt := p.Name
			if img.Alt != nil {
				alt = *img.Alt
			}
			images = append(images, ImageRef{URL: img.URL, Alt: alt})
		}
	}
	return images
}

type OptionGroup struct {
	Title  string   `json:"title"`
	Values []string `json:"values"`
}

// OptionGroups groups distinct option values by option title in first-seen order.
func (p *Product) OptionGroups() []OptionGroup {
	groups := []OptionGroup{}
	index := make(map[string]int)
	seen := make(map[string]map[string]bool)
	for _, v := range p.Variants {
		for _, opt := range v.Options {
			i, ok := index[opt.Title]
			if !ok {
				i = len(groups)
				index[opt.Title] = i
				groups = append(groups, OptionGroup{Title: opt.Title})
				seen[opt.Title] = make(map[string]bool)
			}
			if seen[opt.Title][opt.Value] {
				continue
			}
			seen[opt.Title][opt.Value] = true
			groups[i].Values = append(groups[i].Values, opt.Value)
		}
	}
	return groups
}

// MatchesText reports whether query (already lower-cased) occurs in the
// product name, description or brand name.
func (p *Product) MatchesText(query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) {
		return true
	}
	if p.Description != nil && strings.Contains(strings.ToLower(*p.Description), query) {
		return true
	}
	return p.Brand != nil && strings.Contains(strings.ToLower(p.Brand.Name), query)
}

// DiscountPercentage is the rounded percentage saved going from original to sale.
func DiscountPercentage(original, sale float64) int {
	if original <= 0 {
		return 0
	}
	return int(math.Round((original - sale) / original * 100))
}

// Timestamp accepts RFC 3339 or date-only strings; fixtures use both.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}
