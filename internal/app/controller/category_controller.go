package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meshur/storefront-backend/internal/app/service"
)

type CategoryController struct {
	categoryService service.CategoryService
	productService  service.ProductService
}

func NewCategoryController(categoryService service.CategoryService, productService service.ProductService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
		productService:  productService,
	}
}

// GetCategories GET /api/v1/categories[?roots=true]
func (ctrl *CategoryController) GetCategories(c *gin.Context) {
	categories := ctrl.categoryService.GetCategoryTree()
	if c.Query("roots") == "true" {
		categories = ctrl.categoryService.GetRootCategories()
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// GetFeaturedCategories GET /api/v1/categories/featured
func (ctrl *CategoryController) GetFeaturedCategories(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": ctrl.categoryService.GetFeaturedCategories(limit),
	})
}

// GetAllCategorySlugs GET /api/v1/categories/slugs
func (ctrl *CategoryController) GetAllCategorySlugs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"slugs": ctrl.categoryService.GetAllCategorySlugs(),
	})
}

// GetCategoryBySlug GET /api/v1/categories/:slug
func (ctrl *CategoryController) GetCategoryBySlug(c *gin.Context) {
	slug := c.Param("slug")
	category, err := ctrl.categoryService.GetCategoryBySlug(slug)
	if err != nil {
		respondServiceError(c, err, "fetch category")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category":    category,
		"breadcrumbs": ctrl.categoryService.GetBreadcrumbs(slug),
	})
}

// GetCategoryProducts GET /api/v1/categories/:slug/products
// Accepts the product listing query; the category is taken from the path.
func (ctrl *CategoryController) GetCategoryProducts(c *gin.Context) {
	slug := c.Param("slug")
	if _, err := ctrl.categoryService.GetCategoryBySlug(slug); err != nil {
		respondServiceError(c, err, "fetch category")
		return
	}

	filters, ok := bindListQuery(c)
	if !ok {
		return
	}
	filters.CategorySlug = slug
	c.JSON(http.StatusOK, ctrl.productService.ListProducts(filters))
}
