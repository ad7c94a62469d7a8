package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meshur/storefront-backend/internal/app/model"
	"github.com/meshur/storefront-backend/internal/app/service"
)

type BrandController struct {
	brandService   service.BrandService
	productService service.ProductService
}

func NewBrandController(brandService service.BrandService, productService service.ProductService) *BrandController {
	return &BrandController{
		brandService:   brandService,
		productService: productService,
	}
}

// GetBrands GET /api/v1/brands
func (ctrl *BrandController) GetBrands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"brands": ctrl.brandService.GetAllBrands(),
	})
}

// GetPopularBrands GET /api/v1/brands/popular
func (ctrl *BrandController) GetPopularBrands(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"brands": ctrl.brandService.GetPopularBrands(limit),
	})
}

// GetAllBrandSlugs GET /api/v1/brands/slugs
func (ctrl *BrandController) GetAllBrandSlugs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"slugs": ctrl.brandService.GetAllBrandSlugs(),
	})
}

// GetBrandBySlug GET /api/v1/brands/:slug
// The first page of the brand's products comes along.
func (ctrl *BrandController) GetBrandBySlug(c *gin.Context) {
	brand, err := ctrl.brandService.GetBrandBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "fetch brand")
		return
	}

	products := ctrl.productService.ListProducts(model.ProductFilters{BrandID: &brand.ID})
	c.JSON(http.StatusOK, gin.H{
		"brand":    brand,
		"products": products,
	})
}
