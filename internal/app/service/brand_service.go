package service

import (
	"errors"

	"github.com/meshur/storefront-backend/internal/app/model"
)

var ErrBrandNotFound = errors.New("brand not found")

const DefaultPopularBrandsLimit = 8

type BrandService interface {
	GetAllBrands() []model.Brand
	GetBrandByID(id uint) (*model.Brand, error)
	GetBrandBySlug(slug string) (*model.Brand, error)
	GetPopularBrands(limit int) []model.Brand
	GetAllBrandSlugs() []string
}

type brandService struct {
	catalog CatalogProvider
}

func NewBrandService(catalog CatalogProvider) BrandService {
	return &brandService{catalog: catalog}
}

func (s *brandService) GetAllBrands() []model.Brand {
	return s.catalog.Snapshot().Brands
}

func (s *brandService) GetBrandByID(id uint) (*model.Brand, error) {
	for _, b := range s.catalog.Snapshot().Brands {
		if b.ID == id {
			brand := b
			return &brand, nil
		}
	}
	return nil, ErrBrandNotFound
}

func (s *brandService) GetBrandBySlug(slug string) (*model.Brand, error) {
	for _, b := range s.catalog.Snapshot().Brands {
		if b.Slug == slug {
			brand := b
			return &brand, nil
		}
	}
	return nil, ErrBrandNotFound
}

// GetPopularBrands returns the first brands in catalog order; the fixtures
// list brands by popularity.
func (s *brandService) GetPopularBrands(limit int) []model.Brand {
	brands := s.catalog.Snapshot().Brands
	if limit = orDefault(limit, DefaultPopularBrandsLimit); len(brands) > limit {
		brands = brands[:limit]
	}
	return brands
}

func (s *brandService) GetAllBrandSlugs() []string {
	brands := s.catalog.Snapshot().Brands
	slugs := make([]string, 0, len(brands))
	for _, b := range brands {
		slugs = append(slugs, b.Slug)
	}
	return slugs
}
