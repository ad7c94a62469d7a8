package service

import (
	"errors"
	"sort"

	"github.com/meshur/storefront-backend/internal/app/model"
)

var ErrCategoryNotFound = errors.New("category not found")

const DefaultFeaturedCategoriesLimit = 6

type CategoryService interface {
	GetCategoryTree() []model.Category
	GetRootCategories() []model.Category
	GetCategoryBySlug(slug string) (*model.Category, error)
	GetCategoryByID(id uint) (*model.Category, error)
	GetBreadcrumbs(slug string) []model.Category
	GetFeaturedCategories(limit int) []model.Category
	GetAllCategorySlugs() []string
	GetSubcategoryIDs(slug string) ([]uint, error)
}

type categoryService struct {
	catalog CatalogProvider
}

func NewCategoryService(catalog CatalogProvider) CategoryService {
	return &categoryService{catalog: catalog}
}

func (s *categoryService) GetCategoryTree() []model.Category {
	return s.catalog.Snapshot().Categories
}

func (s *categoryService) GetRootCategories() []model.Category {
	return model.RootCategories(s.catalog.Snapshot().Categories)
}

func (s *categoryService) GetCategoryBySlug(slug string) (*model.Category, error) {
	found := model.FindCategoryBySlug(s.catalog.Snapshot().Categories, slug)
	if found == nil {
		return nil, ErrCategoryNotFound
	}
	category := *found
	return &category, nil
}

func (s *categoryService) GetCategoryByID(id uint) (*model.Category, error) {
	found := model.FindCategoryByID(s.catalog.Snapshot().Categories, id)
	if found == nil {
		return nil, ErrCategoryNotFound
	}
	category := *found
	return &category, nil
}

func (s *categoryService) GetBreadcrumbs(slug string) []model.Category {
	crumbs := model.CategoryBreadcrumbs(s.catalog.Snapshot().Categories, slug)
	// children would repeat the whole subtree in every crumb
	out := make([]model.Category, len(crumbs))
	for i, c := range crumbs {
		c.Children = nil
		out[i] = c
	}
	return out
}

// GetFeaturedCategories returns root categories that have an image, most
// products first.
func (s *categoryService) GetFeaturedCategories(limit int) []model.Category {
	featured := []model.Category{}
	for _, c := range model.RootCategories(s.catalog.Snapshot().Categories) {
		if c.Image != nil {
			featured = append(featured, c)
		}
	}
	sort.SliceStable(featured, func(i, j int) bool {
		return featured[i].ProductCount > featured[j].ProductCount
	})
	if limit = orDefault(limit, DefaultFeaturedCategoriesLimit); len(featured) > limit {
		featured = featured[:limit]
	}
	return featured
}

func (s *categoryService) GetAllCategorySlugs() []string {
	flat := model.FlattenCategories(s.catalog.Snapshot().Categories)
	slugs := make([]string, 0, len(flat))
	for _, c := range flat {
		slugs = append(slugs, c.Slug)
	}
	return slugs
}

func (s *categoryService) GetSubcategoryIDs(slug string) ([]uint, error) {
	category, err := s.GetCategoryBySlug(slug)
	if err != nil {
		return nil, err
	}
	return model.SubcategoryIDs(*category), nil
}
