package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/inventory_api/internal/cache"
	"github.com/GTDGit/inventory_api/internal/config"
	"github.com/GTDGit/inventory_api/internal/database"
	"github.com/GTDGit/inventory_api/internal/handler"
	"github.com/GTDGit/inventory_api/internal/middleware"
	"github.com/GTDGit/inventory_api/internal/repository"
	"github.com/GTDGit/inventory_api/internal/service"
	"github.com/GTDGit/inventory_api/internal/snapshot"
	"github.com/GTDGit/inventory_api/internal/worker"
)

// main is the application entrypoint for the inventory API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("driver", cfg.DB.Driver).Msg("starting inventory api")

	// 3. Connect database. A sqlite store is fresh when its file does not exist yet.
	fresh := cfg.DB.Driver == config.DriverSQLite && !database.Exists(cfg.DB.Path)
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis when configured
	var queryCache service.Cache
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis connection failed - query cache disabled")
		} else {
			defer redisClient.Close()
			queryCache = cache.NewQueryCache(redisClient, cfg.Redis.TTL)
			log.Info().Msg("redis connected successfully")
		}
	}

	// 4. Initialize repositories, services and the snapshotter
	inv := newInventory(db, queryCache)

	// 5. Seed a fresh store from the snapshot
	if cfg.DB.Driver == config.DriverPostgres {
		fresh = isEmpty(db, inv.employees, inv.products)
	}
	if fresh {
		inv.seed(cfg.Snapshot.Path)
	} else {
		log.Info().Msg("existing store found, skipping snapshot import")
	}

	// 6. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db),
		Employee: handler.NewEmployeeHandler(inv.employees),
		Product:  handler.NewProductHandler(inv.products),
	}

	// 7. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers)

	// 8. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 9. Start workers
	go worker.NewSnapshotWorker(inv.snap, cfg.Snapshot.Path, cfg.Snapshot.Interval).Start(ctx)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Cancel context to stop workers
	cancel()

	// 13. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// 14. Write a final snapshot
	if err := inv.snap.Export(context.Background(), cfg.Snapshot.Path); err != nil {
		log.Error().Err(err).Msg("Final snapshot export failed")
	}
	log.Info().Msg("Server exited")
}

// inventory holds the entity services and the snapshotter. The snapshotter
// works on the repositories: the snapshot is the backup of record and must not
// be fed from cached query results.
type inventory struct {
	employees *service.EmployeeService
	products  *service.ProductService
	snap      *snapshot.Snapshotter
}

func newInventory(db *sqlx.DB, queryCache service.Cache) *inventory {
	employeeRepo := repository.NewEmployeeRepository(db)
	productRepo := repository.NewProductRepository(db)
	return &inventory{
		employees: service.NewEmployeeService(employeeRepo, queryCache),
		products:  service.NewProductService(productRepo, queryCache),
		snap:      snapshot.NewSnapshotter(employeeRepo, productRepo),
	}
}

// seed imports the snapshot into a fresh store and re-exports it on success.
// Failures are logged; the server starts with whatever was imported.
func (inv *inventory) seed(path string) {
	ctx := context.Background()
	imported, err := inv.snap.Import(ctx, path)

	// The import writes past the services, even when it fails halfway.
	inv.employees.Invalidate(ctx)
	inv.products.Invalidate(ctx)

	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Snapshot import failed, continuing with the current store")
		return
	}
	if !imported {
		return
	}
	if err := inv.snap.Export(ctx, path); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Snapshot export after import failed")
	}
}

type counter interface {
	Count(ctx context.Context) (int, error)
}

// isEmpty reports whether every table is empty. A server store has no file to
// probe, so row counts decide whether to seed.
func isEmpty(db *sqlx.DB, tables ...counter) bool {
	ctx := context.Background()
	for _, t := range tables {
		n, err := t.Count(ctx)
		if err != nil {
			log.Error().Err(err).Str("driver", db.DriverName()).Msg("Could not count rows, skipping snapshot import")
			return false
		}
		if n > 0 {
			return false
		}
	}
	return true
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Employee *handler.EmployeeHandler
	Product  *handler.ProductHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers) {
	router.GET("/", handler.Index)
	router.GET("/health", handlers.Health.GetHealth)

	employees := router.Group("/employees")
	{
		employees.GET("", handlers.Employee.List)
		employees.POST("", handlers.Employee.Create)
		employees.POST("/search", handlers.Employee.Search)
		employees.GET("/:id", handlers.Employee.Get)
		employees.PUT("/:id", handlers.Employee.Update)
		employees.DELETE("/:id", handlers.Employee.Delete)
	}

	products := router.Group("/products")
	{
		products.GET("", handlers.Product.List)
		products.POST("", handlers.Product.Create)
		products.POST("/search", handlers.Product.Search)
		products.GET("/:id", handlers.Product.Get)
		products.PUT("/:id", handlers.Product.Update)
		products.DELETE("/:id", handlers.Product.Delete)
	}
}

// setupLogger configures zerolog according to the environment.
func setupLogger(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
