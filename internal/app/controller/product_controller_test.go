package controller

import (
	"net/http"
	"testing"

	"github.com/meshur/storefront-backend/internal/app/model"
	apperrors "github.com/meshur/storefront-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productList struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

func ids(products []model.Product) []uint {
	out := make([]uint, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestProductController_ListProducts_SortAndPaginate(t *testing.T) {
	app := setupControllerTest(t)

	w := app.do(t, http.MethodGet, "/products?sort=1&page_size=3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON[model.PaginatedResponse[model.Product]](t, w)
	assert.Equal(t, []uint{3, 5, 6}, ids(resp.Data))
	assert.Equal(t, 8, resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 1, resp.Page)

	w = app.do(t, http.MethodGet, "/products?sort=1&page_size=3&page=3", "", nil)
	resp = decodeJSON[model.PaginatedResponse[model.Product]](t, w)
	assert.Equal(t, []uint{8, 7}, ids(resp.Data), "products without variants sort last")
}

func TestProductController_ListProducts_Filters(t *testing.T) {
	app := setupControllerTest(t)

	tests := []struct {
		name  string
		query string
		want  []uint
	}{
		{"no filters keeps catalog order", "", []uint{1, 2, 3, 4, 5, 6, 7, 8}},
		{"category slug", "?category=mutfak", []uint{5, 6}},
		{"category id", "?category=4", []uint{2, 3}},
		{"brand", "?brand_id=3", []uint{5, 6}},
		{"price range", "?min_price=150&max_price=500", []uint{1, 5, 6}},
		{"in stock", "?in_stock=true&category=mutfak", []uint{5}},
		{"search", "?search=porselen", []uint{6, 7}},
		{"combined", "?brand_id=1&max_price=200", []uint{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodGet, "/products"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			resp := decodeJSON[model.PaginatedResponse[model.Product]](t, w)
			assert.Equal(t, tt.want, ids(resp.Data))
		})
	}
}

func TestProductController_ListProducts_InvalidQuery(t *testing.T) {
	app := setupControllerTest(t)

	w := app.do(t, http.MethodGet, "/products?min_price=500&max_price=100", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationInvalidRange, errorCode(t, w))

	w = app.do(t, http.MethodGet, "/products?sort=42", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationInvalidInput, errorCode(t, w))

	w = app.do(t, http.MethodGet, "/products?page_size=500", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_GetProductBySlug(t *testing.T) {
	app := setupControllerTest(t)

	w := app.do(t, http.MethodGet, "/products/bohem-cay-bardagi", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON[struct {
		Product struct {
			ID                 uint    `json:"id"`
			LowestPrice        float64 `json:"lowest_price"`
			DiscountPercentage int     `json:"discount_percentage"`
			HasDiscount        bool    `json:"has_discount"`
			InStock            bool    `json:"in_stock"`
			TotalStock         int     `json:"total_stock"`
		} `json:"product"`
		Related []model.Product `json:"related"`
	}](t, w)

	assert.Equal(t, uint(5), resp.Product.ID)
	assert.Equal(t, 189.99, resp.Product.LowestPrice)
	assert.Equal(t, 17, resp.Product.DiscountPercentage)
	assert.True(t, resp.Product.HasDiscount)
	assert.True(t, resp.Product.InStock)
	assert.Equal(t, 250, resp.Product.TotalStock)
	assert.Equal(t, []uint{6}, ids(resp.Related))
}

func TestProductController_GetProductBySlug_NotFound(t *testing.T) {
	app := setupControllerTest(t)

	w := app.do(t, http.MethodGet, "/products/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.CatalogProductNotFound, errorCode(t, w))
}

func TestProductController_GetProductByID(t *testing.T) {
	app := setupControllerTest(t)

	w := app.do(t, http.MethodGet, "/products/id/7", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeJSON[map[string]map[string]interface{}](t, w)
	assert.Equal(t, model.PlaceholderImageURL, resp["product"]["main_image"])
	assert.Equal(t, 0.0, resp["product"]["lowest_price"])

	w = app.do(t, http.MethodGet, "/products/id/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationInvalidID, errorCode(t, w))

	w = app.do(t, http.MethodGet, "/products/id/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_Collections(t *testing.T) {
	app := setupControllerTest(t)

	w := app.do(t, http.MethodGet, "/products/featured?limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{5, 4}, ids(decodeJSON[productList](t, w).Products))

	w = app.do(t, http.MethodGet, "/products/best-selling?limit=2", "", nil)
	assert.Equal(t, []uint{5, 2}, ids(decodeJSON[productList](t, w).Products))

	w = app.do(t, http.MethodGet, "/products/new-arrivals?limit=2", "", nil)
	assert.Equal(t, []uint{7, 4}, ids(decodeJSON[productList](t, w).Products))

	w = app.do(t, http.MethodGet, "/products/featured", "", nil)
	assert.Equal(t, 8, decodeJSON[productList](t, w).Count)

	w = app.do(t, http.MethodGet, "/products/featured?limit=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_QuickSearchAndSlugs(t *testing.T) {
	app := setupControllerTest(t)

	w := app.do(t, http.MethodGet, "/products/search?q=elbise", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{1}, ids(decodeJSON[productList](t, w).Products))

	w = app.do(t, http.MethodGet, "/products/search", "", nil)
	assert.Equal(t, 0, decodeJSON[productList](t, w).Count)

	w = app.do(t, http.MethodGet, "/products/slugs", "", nil)
	slugs := decodeJSON[map[string][]string](t, w)["slugs"]
	assert.Len(t, slugs, 8)
	assert.Equal(t, "cicekli-yazlik-elbise", slugs[0])
}
