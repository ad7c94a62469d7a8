// Package query implements the catalog listing: filter, sort and paginate an
// in-memory product list.
package query

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/meshur/storefront-backend/internal/app/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NameLocale is the collation used for the name sorts.
var NameLocale = language.Turkish

// Products applies filters to products and returns the requested page. It
// never reorders the input slice.
func Products(products []model.Product, filters model.ProductFilters) model.PaginatedResponse[model.Product] {
	filtered := Filter(products, filters)
	if filters.SortBy != nil {
		Sort(filtered, *filters.SortBy)
	}
	return Paginate(filtered, filters.Page, filters.PageSize)
}

// Filter returns the products satisfying every criterion in filters, in input order.
func Filter(products []model.Product, filters model.ProductFilters) []model.Product {
	search := strings.ToLower(filters.Search)
	categoryID, categoryIsID := parseCategoryID(filters.CategorySlug)

	out := make([]model.Product, 0, len(products))
	for i := range products {
		p := &products[i]

		if filters.CategorySlug != "" {
			slugMatch := p.Category != nil && p.Category.Slug == filters.CategorySlug
			idMatch := categoryIsID && p.CategoryID == categoryID
			if !slugMatch && !idMatch {
				continue
			}
		}
		if filters.BrandID != nil && (p.BrandID == nil || *p.BrandID != *filters.BrandID) {
			continue
		}
		if filters.MinPrice != nil || filters.MaxPrice != nil {
			price, ok := p.MinVariantPrice()
			if !ok {
				continue
			}
			if filters.MinPrice != nil && price < *filters.MinPrice {
				continue
			}
			if filters.MaxPrice != nil && price > *filters.MaxPrice {
				continue
			}
		}
		if filters.InStock && !p.InStock() {
			continue
		}
		if search != "" && !p.MatchesText(search) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func parseCategoryID(slug string) (uint, bool) {
	if slug == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(slug, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// Sort orders products in place with a stable sort, so equal keys keep their
// relative order. Unknown keys sort like SortRecommended.
func Sort(products []model.Product, by model.SortBy) {
	var less func(a, b *model.Product) bool

	switch by {
	case model.SortPriceLowToHigh:
		less = func(a, b *model.Product) bool { return sortPrice(a) < sortPrice(b) }
	case model.SortPriceHighToLow:
		less = func(a, b *model.Product) bool { return sortPrice(a) > sortPrice(b) }
	case model.SortNewest:
		less = func(a, b *model.Product) bool { return a.CreatedAt.After(b.CreatedAt.Time) }
	case model.SortBestSelling:
		less = func(a, b *model.Product) bool { return a.ReviewCount > b.ReviewCount }
	case model.SortNameAZ, model.SortNameZA:
		// collators keep internal buffers; one per call
		col := collate.New(NameLocale)
		sign := 1
		if by == model.SortNameZA {
			sign = -1
		}
		less = func(a, b *model.Product) bool { return sign*col.CompareString(a.Name, b.Name) < 0 }
	default:
		// SortRecommended and SortTopRated both order by rating
		less = func(a, b *model.Product) bool { return a.Rating > b.Rating }
	}

	sort.SliceStable(products, func(i, j int) bool {
		return less(&products[i], &products[j])
	})
}

// sortPrice places products without variants after every priced product when
// ascending and before them when descending.
func sortPrice(p *model.Product) float64 {
	if price, ok := p.MinVariantPrice(); ok {
		return price
	}
	return math.Inf(1)
}

// Paginate slices items into a 1-indexed page. Pages below 1 and sizes below
// 1 fall back to the defaults; a page past the end is empty.
func Paginate[T any](items []T, page, pageSize int) model.PaginatedResponse[T] {
	if page < 1 {
		page = model.DefaultPage
	}
	if pageSize < 1 {
		pageSize = model.DefaultPageSize
	}

	total := len(items)
	resp := model.PaginatedResponse[T]{
		Data:       []T{},
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}

	if page > resp.TotalPages {
		return resp
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	resp.Data = append(resp.Data, items[start:end]...)
	return resp
}

// TopN returns up to limit products ordered by key without touching the input.
func TopN(products []model.Product, by model.SortBy, limit int) []model.Product {
	sorted := make([]model.Product, len(products))
	copy(sorted, products)
	Sort(sorted, by)
	if limit >= 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}
