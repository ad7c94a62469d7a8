package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meshur/storefront-backend/config"
	"github.com/meshur/storefront-backend/internal/app/controller"
	"github.com/meshur/storefront-backend/internal/app/repository"
	"github.com/meshur/storefront-backend/internal/app/service"
	"github.com/meshur/storefront-backend/internal/catalog"
	"github.com/meshur/storefront-backend/internal/db"
	"github.com/meshur/storefront-backend/internal/middleware"
	"github.com/meshur/storefront-backend/internal/router"
	ws "github.com/meshur/storefront-backend/internal/websocket"
	"github.com/meshur/storefront-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSecret   = "integration-secret"
	testAdminKey = "integration-admin-key"
)

type TestServer struct {
	Router   *gin.Engine
	Sessions *service.SessionRegistry
}

// setupIntegrationTest builds the full router over the fixture catalog and a
// postgres-shaped state table on sqlite. Servers built on the same db share
// persisted state, which stands in for a restart.
func setupIntegrationTest(t *testing.T, testDB *gorm.DB) *TestServer {
	t.Helper()

	cat := catalog.New(catalog.NewFileSource("../../data"))
	require.NoError(t, cat.Reload(context.Background()))

	hub := ws.NewHub()
	sessions := service.NewSessionRegistry(repository.NewGormStateRepository(testDB), hub, service.RegistryConfig{})

	productService := service.NewProductService(cat)

	adminHash, err := util.HashSecret(testAdminKey)
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Admin:  config.AdminConfig{APIKeyHash: adminHash},
	}

	r := router.NewRouter(
		controller.NewSessionController(sessions, testSecret, time.Hour),
		controller.NewProductController(productService),
		controller.NewCategoryController(service.NewCategoryService(cat), productService),
		controller.NewBrandController(service.NewBrandService(cat), productService),
		controller.NewCartController(service.NewCartService(sessions, productService)),
		controller.NewFavoritesController(service.NewFavoritesService(sessions, productService)),
		controller.NewAdminController(cat, service.NewExportService(cat)),
		controller.NewEventsController(hub, cfg.CORS.AllowedOrigins),
		middleware.NewSessionMiddleware(testSecret),
		func() gin.H { return gin.H{"sessions": sessions.Stats()} },
		cfg,
	)

	return &TestServer{Router: r.Setup(), Sessions: sessions}
}

func (s *TestServer) request(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestIntegration_SessionStateSurvivesRestart(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	server := setupIntegrationTest(t, testDB)

	w := server.request(t, http.MethodPost, "/api/v1/session", nil, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var issued struct {
		SessionID string `json:"session_id"`
		Token     string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issued))
	require.NotEmpty(t, issued.Token)

	w = server.request(t, http.MethodPost, "/api/v1/cart/items",
		map[string]interface{}{"product_id": 2, "variant_id": 201, "quantity": 2}, bearer(issued.Token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = server.request(t, http.MethodPost, "/api/v1/favorites/5/toggle", nil, bearer(issued.Token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = server.request(t, http.MethodPost, "/api/v1/session/save", nil, bearer(issued.Token))
	require.Equal(t, http.StatusNoContent, w.Code)

	restarted := setupIntegrationTest(t, testDB)

	w = restarted.request(t, http.MethodGet, "/api/v1/cart", nil, bearer(issued.Token))
	require.Equal(t, http.StatusOK, w.Code)
	var cart service.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(201), cart.Items[0].VariantID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.InDelta(t, 1798.0, cart.Total, 0.001)

	w = restarted.request(t, http.MethodGet, "/api/v1/favorites/5", nil, bearer(issued.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_favorite":true`)
}

func TestIntegration_SessionsAreIsolated(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	server := setupIntegrationTest(t, testDB)

	tokenA, _, err := util.GenerateSessionToken("session-a", testSecret, time.Hour)
	require.NoError(t, err)
	tokenB, _, err := util.GenerateSessionToken("session-b", testSecret, time.Hour)
	require.NoError(t, err)

	w := server.request(t, http.MethodPost, "/api/v1/cart/items",
		map[string]interface{}{"product_id": 3, "variant_id": 301}, bearer(tokenA))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = server.request(t, http.MethodGet, "/api/v1/cart", nil, bearer(tokenB))
	require.Equal(t, http.StatusOK, w.Code)
	var cart service.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Empty(t, cart.Items)
}

func TestIntegration_PublicAndAdminRoutes(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	server := setupIntegrationTest(t, testDB)

	w := server.request(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sessions"`)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = server.request(t, http.MethodGet, "/api/v1/products?category=giyim&sort=1", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = server.request(t, http.MethodGet, "/api/v1/cart", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = server.request(t, http.MethodGet, "/api/v1/admin/catalog/export", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = server.request(t, http.MethodGet, "/api/v1/admin/catalog/export", nil,
		map[string]string{middleware.APIKeyHeader: testAdminKey})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "9", w.Header().Get("X-Export-Rows"))

	w = server.request(t, http.MethodPost, "/api/v1/admin/catalog/reload", nil,
		map[string]string{middleware.APIKeyHeader: testAdminKey})
	assert.Equal(t, http.StatusOK, w.Code)
}
