package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"starter-api/internal/cache"
	"starter-api/internal/config"
	"starter-api/internal/controllers"
	"starter-api/internal/database"
	"starter-api/internal/middleware"
	"starter-api/internal/password"
	"starter-api/internal/repository"
	"starter-api/internal/service"
)

// Server owns the HTTP router and the middleware state behind it.
type Server struct {
	router  *gin.Engine
	limiter *middleware.RateLimiter
	log     *zap.Logger
}

// New wires repositories, services and controllers onto a gin engine.
// cacheClient may be nil.
func New(cfg *config.Config, db *gorm.DB, cacheClient cache.Cache, reg *prometheus.Registry, log *zap.Logger) *Server {
	// Initialize repositories
	userRepo := repository.NewUserRepository()
	itemRepo := repository.NewItemRepository()

	// Initialize services
	hasher := password.NewHasher(cfg.BcryptCost)
	userService := service.NewUserService(userRepo, hasher, log)
	itemService := service.NewItemService(itemRepo, cacheClient, cfg.CacheTTL, log)

	// Initialize controllers
	userController := controllers.NewUserController(userService, log)
	itemController := controllers.NewItemController(itemService, log)
	rootController := controllers.NewRootController(db, log)

	sessions := database.NewProvider(db, log)
	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	metrics := middleware.NewMetrics(reg)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		ginzap.Ginzap(log, time.RFC3339, true),
		ginzap.RecoveryWithZap(log, true),
		cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		metrics.Middleware(),
	)

	// Operational endpoints (no rate limiting)
	router.GET("/", rootController.Root)
	router.GET("/health", rootController.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := router.Group("")
	api.Use(limiter.LimitMiddleware(), sessions.Middleware())
	{
		users := api.Group("/users")
		{
			users.GET("", userController.ListUsers)
			users.POST("", userController.CreateUser)
			users.GET("/by-email", userController.GetUserByEmail)
			users.POST("/login", userController.Login)
			users.GET("/:id", userController.GetUser)
		}

		items := api.Group("/items")
		{
			items.GET("", itemController.ListItems)
			items.POST("", itemController.CreateItem)
			items.GET("/:id", itemController.GetItem)
		}
	}

	return &Server{router: router, limiter: limiter, log: log}
}

// Router exposes the engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Close releases background resources held by middleware.
func (s *Server) Close() {
	s.limiter.Stop()
}
