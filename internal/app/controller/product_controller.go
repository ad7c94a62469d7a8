package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meshur/storefront-backend/internal/app/model"
	"github.com/meshur/storefront-backend/internal/app/service"
	apperrors "github.com/meshur/storefront-backend/internal/errors"
	"github.com/meshur/storefront-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ListProductsQuery binds the listing query string.
type ListProductsQuery struct {
	Category string   `form:"category"`
	BrandID  *uint    `form:"brand_id"`
	MinPrice *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice *float64 `form:"max_price" binding:"omitempty,gte=0"`
	InStock  bool     `form:"in_stock"`
	Search   string   `form:"search"`
	Sort     *int     `form:"sort" binding:"omitempty,gte=0,lte=7"`
	Page     int      `form:"page"`
	PageSize int      `form:"page_size" binding:"omitempty,lte=100"`
}

func (q ListProductsQuery) Filters() model.ProductFilters {
	filters := model.ProductFilters{
		CategorySlug: q.Category,
		BrandID:      q.BrandID,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		InStock:      q.InStock,
		Search:       q.Search,
		Page:         q.Page,
		PageSize:     q.PageSize,
	}
	if q.Sort != nil {
		sortBy := model.SortBy(*q.Sort)
		filters.SortBy = &sortBy
	}
	return filters
}

// bindListQuery binds and checks the listing query; on failure the response
// has been written.
func bindListQuery(c *gin.Context) (model.ProductFilters, bool) {
	var q ListProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingFailed(c, err)
		return model.ProductFilters{}, false
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "min_price cannot exceed max_price")
		return model.ProductFilters{}, false
	}
	return q.Filters(), true
}

// ListProducts GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	filters, ok := bindListQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.productService.ListProducts(filters))
}

// ProductDetail is a product plus the values storefront pages derive from it.
type ProductDetail struct {
	*model.Product
	LowestPrice           float64             `json:"lowest_price"`
	HighestCompareAtPrice *float64            `json:"highest_compare_at_price"`
	DiscountPercentage    int                 `json:"discount_percentage"`
	HasDiscount           bool                `json:"has_discount"`
	InStock               bool                `json:"in_stock"`
	TotalStock            int                 `json:"total_stock"`
	MainImage             string              `json:"main_image"`
	Images                []model.ImageRef    `json:"images"`
	OptionGroups          []model.OptionGroup `json:"option_groups"`
}

func NewProductDetail(p *model.Product) ProductDetail {
	detail := ProductDetail{
		Product:               p,
		LowestPrice:           p.LowestPrice(),
		HighestCompareAtPrice: p.HighestCompareAtPrice(),
		HasDiscount:           p.HasDiscount(),
		InStock:               p.InStock(),
		TotalStock:            p.TotalStock(),
		MainImage:             p.MainImage(),
		Images:                p.AllImages(),
		OptionGroups:          p.OptionGroups(),
	}
	if detail.HighestCompareAtPrice != nil {
		detail.DiscountPercentage = model.DiscountPercentage(*detail.HighestCompareAtPrice, detail.LowestPrice)
	}
	return detail
}

// GetProductBySlug GET /api/v1/products/:slug
func (ctrl *ProductController) GetProductBySlug(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	product, err := ctrl.productService.GetProductBySlug(c.Param("slug"))
	if err != nil {
		log.Warn("Product not found", map[string]interface{}{
			"slug": c.Param("slug"),
		})
		respondServiceError(c, err, "fetch product")
		return
	}

	related, err := ctrl.productService.GetRelatedProducts(product.ID, 0)
	if err != nil {
		respondServiceError(c, err, "fetch related products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": NewProductDetail(product),
		"related": related,
	})
}

// GetProductByID GET /api/v1/products/id/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		respondServiceError(c, err, "fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": NewProductDetail(product),
	})
}

// GetFeaturedProducts GET /api/v1/products/featured
func (ctrl *ProductController) GetFeaturedProducts(c *gin.Context) {
	ctrl.collection(c, ctrl.productService.GetFeaturedProducts)
}

// GetBestSellingProducts GET /api/v1/products/best-selling
func (ctrl *ProductController) GetBestSellingProducts(c *gin.Context) {
	ctrl.collection(c, ctrl.productService.GetBestSellingProducts)
}

// GetNewArrivals GET /api/v1/products/new-arrivals
func (ctrl *ProductController) GetNewArrivals(c *gin.Context) {
	ctrl.collection(c, ctrl.productService.GetNewArrivals)
}

func (ctrl *ProductController) collection(c *gin.Context, fetch func(limit int) []model.Product) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	products := fetch(limit)
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// QuickSearch GET /api/v1/products/search?q=
func (ctrl *ProductController) QuickSearch(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	products := ctrl.productService.QuickSearch(c.Query("q"), limit)
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetAllProductSlugs GET /api/v1/products/slugs
func (ctrl *ProductController) GetAllProductSlugs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"slugs": ctrl.productService.GetAllProductSlugs(),
	})
}
