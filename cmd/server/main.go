package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
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
	"github.com/meshur/storefront-backend/internal/scheduler"
	"github.com/meshur/storefront-backend/internal/storage"
	ws "github.com/meshur/storefront-backend/internal/websocket"
	"github.com/meshur/storefront-backend/pkg/logger"
	mongopkg "github.com/meshur/storefront-backend/pkg/mongo"
	redispkg "github.com/meshur/storefront-backend/pkg/redis"
	"github.com/meshur/storefront-backend/pkg/util"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// server hash-admin-key <key> prints the value for ADMIN_API_KEY_HASH
	if len(os.Args) == 3 && os.Args[1] == "hash-admin-key" {
		hash, err := util.HashSecret(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	format := "json"
	if cfg.Log.Pretty {
		format = "console"
	}
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      format,
		EnableColor: cfg.Log.Pretty,
		Service:     "meshur-storefront",
	})

	logger.Info("Starting Meshur storefront backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"persistence": cfg.Persistence.Backend,
		"catalog":     cfg.Catalog.Source,
	})

	if cfg.Session.Secret == "change-me" && cfg.Server.Environment == "production" {
		logger.Fatal("SESSION_SECRET must be set in production", nil)
	}

	// Catalog
	cat := catalog.New(catalogSource(cfg))
	if err := cat.Reload(context.Background()); err != nil {
		logger.Fatal("Failed to load catalog", err)
	}

	// Persistence
	stateRepo, purge, closeState, err := openStateRepository(cfg)
	if err != nil {
		logger.Fatal("Failed to open state backend", err, map[string]interface{}{
			"backend": cfg.Persistence.Backend,
		})
	}
	defer closeState()

	// Realtime events
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := ws.NewHub()
	go hub.Run(hubCtx)

	registry := service.NewSessionRegistry(stateRepo, hub, service.RegistryConfig{
		IdleTimeout:  cfg.Persistence.SessionIdle,
		WriteThrough: cfg.Persistence.WriteThrough,
	})

	// Services
	productService := service.NewProductService(cat)
	categoryService := service.NewCategoryService(cat)
	brandService := service.NewBrandService(cat)
	cartService := service.NewCartService(registry, productService)
	favoritesService := service.NewFavoritesService(registry, productService)
	exportService := service.NewExportService(cat)

	// Scheduled jobs
	jobs := scheduler.New()
	mustAdd := func(job scheduler.Job) {
		if err := jobs.Add(job); err != nil {
			logger.Fatal("Failed to schedule job", err)
		}
	}
	mustAdd(scheduler.FlushJob(cfg.Persistence.FlushSchedule, registry))
	mustAdd(scheduler.CatalogReloadJob(cfg.Catalog.ReloadSchedule, cat))
	if purge != nil && cfg.Persistence.StateRetention > 0 {
		mustAdd(scheduler.PurgeJob("0 4 * * *", purge))
	}
	jobs.Start()

	r := router.NewRouter(
		controller.NewSessionController(registry, cfg.Session.Secret, cfg.Session.TokenTTL),
		controller.NewProductController(productService),
		controller.NewCategoryController(categoryService, productService),
		controller.NewBrandController(brandService, productService),
		controller.NewCartController(cartService),
		controller.NewFavoritesController(favoritesService),
		controller.NewAdminController(cat, exportService),
		controller.NewEventsController(hub, cfg.CORS.AllowedOrigins),
		middleware.NewSessionMiddleware(cfg.Session.Secret),
		func() gin.H {
			return gin.H{
				"sessions":    registry.Stats(),
				"connections": hub.ConnectionCount(),
				"catalog_at":  cat.Snapshot().LoadedAt,
			}
		},
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", err)
	}
	jobs.Stop(ctx)
	if err := registry.Close(ctx); err != nil {
		logger.Error("Failed to save session state on shutdown", err)
	}
	stopHub()

	logger.Info("Server stopped successfully")
}

func catalogSource(cfg *config.Config) catalog.Source {
	if cfg.Catalog.Source == "s3" {
		objects := storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.Catalog.S3Prefix)
		return catalog.NewS3Source(objects, cfg.S3.Bucket+"/"+cfg.Catalog.S3Prefix)
	}
	return catalog.NewFileSource(cfg.Catalog.Dir)
}

// openStateRepository connects the configured backend. purge is set only for
// backends that keep rows until they are deleted.
func openStateRepository(cfg *config.Config) (repo repository.StateRepository, purge func() (int64, error), closeFn func(), err error) {
	switch cfg.Persistence.Backend {
	case "postgres":
		if err := db.Initialize(&cfg.Database); err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		purge = func() (int64, error) {
			return db.PurgeStaleStates(db.GetDB(), cfg.Persistence.StateRetention)
		}
		return repository.NewGormStateRepository(db.GetDB()), purge, closeLogged("database", db.Close), nil

	case "redis":
		if err := redispkg.Init(&cfg.Redis); err != nil {
			return nil, nil, nil, err
		}
		return repository.NewRedisStateRepository(redispkg.GetClient(), cfg.Persistence.RedisTTL), nil, closeLogged("redis", redispkg.Close), nil

	case "mongo":
		if err := mongopkg.Connect(&cfg.Mongo); err != nil {
			return nil, nil, nil, err
		}
		collection, err := mongopkg.GetCollection(cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return nil, nil, nil, err
		}
		disconnect := func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return mongopkg.Close(ctx)
		}
		return repository.NewMongoStateRepository(collection), nil, closeLogged("mongodb", disconnect), nil

	default:
		logger.Warn("Using in-memory state backend, carts are lost on restart", nil)
		return repository.NewMemoryStateRepository(), nil, func() {}, nil
	}
}

func closeLogged(name string, closeFn func() error) func() {
	return func() {
		if err := closeFn(); err != nil {
			logger.Error("Failed to close "+name+" connection", err)
		}
	}
}
