package service

import (
	"context"
	"errors"
	"strings"

	"github.com/meshur/storefront-backend/internal/app/model"
	"github.com/meshur/storefront-backend/internal/app/query"
	"github.com/meshur/storefront-backend/internal/catalog"
	"github.com/meshur/storefront-backend/pkg/logger"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
)

const (
	DefaultFeaturedLimit    = 8
	DefaultBestSellingLimit = 8
	DefaultNewArrivalsLimit = 8
	DefaultRelatedLimit     = 4
	DefaultSearchLimit      = 10
)

// CatalogProvider is the read side of catalog.Catalog.
type CatalogProvider interface {
	Snapshot() *catalog.Snapshot
	Reload(ctx context.Context) error
}

type ProductService interface {
	ListProducts(filters model.ProductFilters) model.PaginatedResponse[model.Product]
	GetProductByID(id uint) (*model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)
	GetVariant(productID, variantID uint) (*model.Product, *model.ProductVariant, error)
	GetFeaturedProducts(limit int) []model.Product
	GetBestSellingProducts(limit int) []model.Product
	GetNewArrivals(limit int) []model.Product
	GetRelatedProducts(productID uint, limit int) ([]model.Product, error)
	QuickSearch(q string, limit int) []model.Product
	GetAllProductSlugs() []string
}

type productService struct {
	catalog CatalogProvider
}

func NewProductService(catalog CatalogProvider) ProductService {
	return &productService{catalog: catalog}
}

func (s *productService) ListProducts(filters model.ProductFilters) model.PaginatedResponse[model.Product] {
	resp := query.Products(s.catalog.Snapshot().Products, filters)

	logger.Debug("Products listed", map[string]interface{}{
		"category": filters.CategorySlug,
		"search":   filters.Search,
		"page":     resp.Page,
		"total":    resp.Total,
	})
	return resp
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	for _, p := range s.catalog.Snapshot().Products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, ErrProductNotFound
}

func (s *productService) GetProductBySlug(slug string) (*model.Product, error) {
	for _, p := range s.catalog.Snapshot().Products {
		if p.Slug == slug {
			product := p
			return &product, nil
		}
	}
	return nil, ErrProductNotFound
}

func (s *productService) GetVariant(productID, variantID uint) (*model.Product, *model.ProductVariant, error) {
	product, err := s.GetProductByID(productID)
	if err != nil {
		return nil, nil, err
	}
	variant, ok := product.Variant(variantID)
	if !ok {
		return nil, nil, ErrVariantNotFound
	}
	return product, &variant, nil
}

func (s *productService) GetFeaturedProducts(limit int) []model.Product {
	return query.TopN(s.catalog.Snapshot().Products, model.SortTopRated, orDefault(limit, DefaultFeaturedLimit))
}

func (s *productService) GetBestSellingProducts(limit int) []model.Product {
	return query.TopN(s.catalog.Snapshot().Products, model.SortBestSelling, orDefault(limit, DefaultBestSellingLimit))
}

func (s *productService) GetNewArrivals(limit int) []model.Product {
	return query.TopN(s.catalog.Snapshot().Products, model.SortNewest, orDefault(limit, DefaultNewArrivalsLimit))
}

// GetRelatedProducts lists other products of the same category in catalog order.
func (s *productService) GetRelatedProducts(productID uint, limit int) ([]model.Product, error) {
	product, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	limit = orDefault(limit, DefaultRelatedLimit)
	related := []model.Product{}
	for _, p := range s.catalog.Snapshot().Products {
		if len(related) == limit {
			break
		}
		if p.ID != product.ID && p.CategoryID == product.CategoryID {
			related = append(related, p)
		}
	}
	return related, nil
}

func (s *productService) QuickSearch(q string, limit int) []model.Product {
	q = strings.TrimSpace(q)
	if q == "" {
		return []model.Product{}
	}

	matches := query.Filter(s.catalog.Snapshot().Products, model.ProductFilters{Search: q})
	if limit = orDefault(limit, DefaultSearchLimit); len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func (s *productService) GetAllProductSlugs() []string {
	products := s.catalog.Snapshot().Products
	slugs := make([]string, 0, len(products))
	for _, p := range products {
		slugs = append(slugs, p.Slug)
	}
	return slugs
}

func orDefault(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
