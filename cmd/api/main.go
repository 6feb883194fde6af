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
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/storefront_api/internal/cache"
	"github.com/GTDGit/storefront_api/internal/config"
	"github.com/GTDGit/storefront_api/internal/database"
	"github.com/GTDGit/storefront_api/internal/handler"
	"github.com/GTDGit/storefront_api/internal/middleware"
	"github.com/GTDGit/storefront_api/internal/repository"
	"github.com/GTDGit/storefront_api/internal/service"
	"github.com/GTDGit/storefront_api/internal/utils"
	"github.com/GTDGit/storefront_api/internal/worker"
)

// main is the application entrypoint for the storefront API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("catalog_backend", cfg.Catalog.Backend).Msg("starting storefront api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := database.RunMigrations(db.DB, "file://migrations"); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	health := map[string]handler.Pinger{
		"database": handler.PingFunc(db.PingContext),
		"redis":    redisClient,
	}

	// 4. Select catalog backend
	var catalog service.CatalogStore
	switch cfg.Catalog.Backend {
	case config.CatalogBackendMongo:
		mongoClient, mongoDB, err := database.ConnectMongo(&cfg.Mongo)
		if err != nil {
			log.Error().Err(err).Msg("mongo connection failed")
			fmt.Fprintf(os.Stderr, "mongo connection failed: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoClient.Disconnect(ctx)
		}()
		mongoCatalog := repository.NewMongoCatalogRepository(mongoDB)
		catalog = mongoCatalog
		health["mongo"] = mongoCatalog
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo catalog connected")
	default:
		catalog = repository.NewProductRepository(db)
	}

	// 5. Initialize repositories
	configRepo := repository.NewConfigurationRepository(db)
	userRepo := repository.NewUserRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewCartRepository(db)

	// 6. Initialize services
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	calculator := service.NewPriceCalculator(catalog)
	configSvc := service.NewConfigurationService(configRepo, catalog, calculator, service.PricingPolicy{
		LegacyRecompute:         cfg.Pricing.LegacyRecompute,
		EnforceVariantOwnership: cfg.Pricing.EnforceVariantOwnership,
	})
	catalogSvc := service.NewCatalogService(catalog)
	authSvc := service.NewAuthService(userRepo, tokens, cache.NewTokenDenylist(redisClient))
	favoriteSvc := service.NewFavoriteService(favoriteRepo, catalog)
	cartSvc := service.NewCartService(cartRepo, configRepo, catalog)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:        handler.NewHealthHandler(health),
		Product:       handler.NewProductHandler(catalogSvc),
		Configuration: handler.NewConfigurationHandler(configSvc),
		Auth:          handler.NewAuthHandler(authSvc),
		Favorite:      handler.NewFavoriteHandler(favoriteSvc),
		Cart:          handler.NewCartHandler(cartSvc),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(authSvc)
	loginLimiter := cache.NewLoginLimiter(redisClient, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)

	// 9. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(cfg.CORSAllowedOrigins)
	setupRoutes(router, handlers, jwtMw, loginLimiter)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewCartCleanupWorker(cartSvc, cfg.Worker.CartCleanupInterval, cfg.Worker.CartTTL).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health        *handler.HealthHandler
	Product       *handler.ProductHandler
	Configuration *handler.ConfigurationHandler
	Auth          *handler.AuthHandler
	Favorite      *handler.FavoriteHandler
	Cart          *handler.CartHandler
}

// newRouter builds the engine with the global middleware chain.
func newRouter(allowedOrigins []string) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.UseJSONFieldNames(v)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(allowedOrigins))
	router.Use(middleware.LoggingMiddleware())
	return router
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware, loginLimiter middleware.Limiter) {
	v1 := router.Group("/v1")

	// Public
	v1.GET("/health", handlers.Health.GetHealth)
	v1.GET("/products", handlers.Product.GetProducts)
	v1.GET("/products/:id", handlers.Product.GetProduct)
	v1.GET("/products/:id/variants", handlers.Product.GetVariants)
	v1.GET("/categories", handlers.Product.GetCategories)

	auth := v1.Group("/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/register/business", handlers.Auth.RegisterBusiness)
		auth.POST("/login", middleware.RateLimitMiddleware(loginLimiter), handlers.Auth.Login)
		auth.POST("/logout", jwtMiddleware.Handle(), handlers.Auth.Logout)
		auth.GET("/me", jwtMiddleware.Handle(), handlers.Auth.Me)
	}

	// Authenticated
	configs := v1.Group("/configurations")
	configs.Use(jwtMiddleware.Handle())
	{
		configs.GET("", handlers.Configuration.List)
		configs.POST("", handlers.Configuration.Create)
		configs.POST("/calculate-price", handlers.Configuration.CalculatePrice)
		configs.GET("/product/:productId", handlers.Configuration.ListByProduct)
		configs.GET("/:id", handlers.Configuration.Get)
		configs.PUT("/:id", handlers.Configuration.Update)
		configs.DELETE("/:id", handlers.Configuration.Delete)
	}

	favorites := v1.Group("/favorites")
	favorites.Use(jwtMiddleware.Handle())
	{
		favorites.GET("", handlers.Favorite.List)
		favorites.POST("", handlers.Favorite.Add)
		favorites.DELETE("/:productId", handlers.Favorite.Remove)
	}

	cart := v1.Group("/cart")
	cart.Use(jwtMiddleware.Handle())
	{
		cart.GET("", handlers.Cart.Get)
		cart.DELETE("", handlers.Cart.Clear)
		cart.POST("/items", handlers.Cart.AddItem)
		cart.PUT("/items/:id", handlers.Cart.UpdateItem)
		cart.DELETE("/items/:id", handlers.Cart.RemoveItem)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
