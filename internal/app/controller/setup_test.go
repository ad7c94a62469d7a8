package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meshur/storefront-backend/internal/app/repository"
	"github.com/meshur/storefront-backend/internal/app/service"
	"github.com/meshur/storefront-backend/internal/catalog"
	"github.com/meshur/storefront-backend/internal/middleware"
	ws "github.com/meshur/storefront-backend/internal/websocket"
	"github.com/meshur/storefront-backend/pkg/util"
	"github.com/stretchr/testify/require"
)

const (
	fixtureDir        = "../../../data"
	testSessionSecret = "controller-test-secret"
)

type testApp struct {
	router   *gin.Engine
	catalog  *catalog.Catalog
	sessions *service.SessionRegistry
	repo     *repository.MemoryStateRepository
}

// setupControllerTest wires every controller onto a bare gin engine with the
// fixture catalog and an in-memory state repository.
func setupControllerTest(t *testing.T) *testApp {
	t.Helper()

	cat := catalog.New(catalog.NewFileSource(fixtureDir))
	require.NoError(t, cat.Reload(context.Background()))

	repo := repository.NewMemoryStateRepository()
	hub := ws.NewHub()
	sessions := service.NewSessionRegistry(repo, hub, service.RegistryConfig{})

	productService := service.NewProductService(cat)
	categoryService := service.NewCategoryService(cat)
	brandService := service.NewBrandService(cat)

	productCtrl := NewProductController(productService)
	categoryCtrl := NewCategoryController(categoryService, productService)
	brandCtrl := NewBrandController(brandService, productService)
	cartCtrl := NewCartController(service.NewCartService(sessions, productService))
	favoritesCtrl := NewFavoritesController(service.NewFavoritesService(sessions, productService))
	sessionCtrl := NewSessionController(sessions, testSessionSecret, time.Hour)
	adminCtrl := NewAdminController(cat, service.NewExportService(cat))

	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.POST("/session", sessionCtrl.IssueSession)
	router.GET("/products", productCtrl.ListProducts)
	router.GET("/products/featured", productCtrl.GetFeaturedProducts)
	router.GET("/products/best-selling", productCtrl.GetBestSellingProducts)
	router.GET("/products/new-arrivals", productCtrl.GetNewArrivals)
	router.GET("/products/search", productCtrl.QuickSearch)
	router.GET("/products/slugs", productCtrl.GetAllProductSlugs)
	router.GET("/products/id/:id", productCtrl.GetProductByID)
	router.GET("/products/:slug", productCtrl.GetProductBySlug)
	router.GET("/categories", categoryCtrl.GetCategories)
	router.GET("/categories/featured", categoryCtrl.GetFeaturedCategories)
	router.GET("/categories/slugs", categoryCtrl.GetAllCategorySlugs)
	router.GET("/categories/:slug", categoryCtrl.GetCategoryBySlug)
	router.GET("/categories/:slug/products", categoryCtrl.GetCategoryProducts)
	router.GET("/brands", brandCtrl.GetBrands)
	router.GET("/brands/popular", brandCtrl.GetPopularBrands)
	router.GET("/brands/slugs", brandCtrl.GetAllBrandSlugs)
	router.GET("/brands/:slug", brandCtrl.GetBrandBySlug)
	router.GET("/admin/catalog/export", adminCtrl.ExportCatalog)
	router.POST("/admin/catalog/reload", adminCtrl.ReloadCatalog)

	authed := router.Group("")
	authed.Use(middleware.NewSessionMiddleware(testSessionSecret).RequireSession())
	authed.POST("/session/save", sessionCtrl.SaveSession)
	authed.GET("/cart", cartCtrl.GetCart)
	authed.DELETE("/cart", cartCtrl.ClearCart)
	authed.POST("/cart/items", cartCtrl.AddToCart)
	authed.PUT("/cart/items/:variant_id", cartCtrl.UpdateCartItem)
	authed.DELETE("/cart/items/:variant_id", cartCtrl.RemoveFromCart)
	authed.GET("/favorites", favoritesCtrl.GetFavorites)
	authed.POST("/favorites", favoritesCtrl.AddFavorite)
	authed.DELETE("/favorites", favoritesCtrl.ClearFavorites)
	authed.GET("/favorites/:product_id", favoritesCtrl.IsFavorite)
	authed.DELETE("/favorites/:product_id", favoritesCtrl.RemoveFavorite)
	authed.POST("/favorites/:product_id/toggle", favoritesCtrl.ToggleFavorite)

	return &testApp{router: router, catalog: cat, sessions: sessions, repo: repo}
}

func sessionToken(t *testing.T, sessionID string) string {
	t.Helper()
	token, _, err := util.GenerateSessionToken(sessionID, testSessionSecret, time.Hour)
	require.NoError(t, err)
	return token
}

// do sends a request; body is JSON-encoded unless nil.
func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeJSON[map[string]interface{}](t, w)["error"].(string)
}

