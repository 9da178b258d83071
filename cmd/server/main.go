package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/salvadorklaude/powerhouse-store/internal/di"
	"github.com/salvadorklaude/powerhouse-store/internal/domain"
	"github.com/salvadorklaude/powerhouse-store/internal/middleware"
	"github.com/salvadorklaude/powerhouse-store/internal/migrate"
	"github.com/salvadorklaude/powerhouse-store/internal/repository"
	"github.com/salvadorklaude/powerhouse-store/pkg/config"
	"github.com/salvadorklaude/powerhouse-store/pkg/database"
	"github.com/salvadorklaude/powerhouse-store/pkg/logger"
	"github.com/salvadorklaude/powerhouse-store/pkg/redis"
	"github.com/salvadorklaude/powerhouse-store/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	ctx := context.Background()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}); err != nil {
		zlog.Fatal("failed to init telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()

	if err := migrate.Up(ctx, cfg.Database.DSN()); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  10 * time.Second,
		MaxRetries:      3,
		RetryInterval:   2 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		zlog.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	rdb, err := redis.NewClient(ctx, &redis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: time.Second,
	})
	if err != nil {
		zlog.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	container := di.NewContainer(&di.ContainerConfig{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Logger: zlog,
	})

	// Sessions only carry an expiry when a token TTL is configured; sweep
	// stale rows so the table does not grow unbounded.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if cfg.Auth.TokenTTL > 0 {
		go sweepExpiredSessions(sweepCtx, container.SessionRepo, zlog)
	}

	router := setupRouter(cfg, container, zlog)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("forced shutdown", zap.Error(err))
	}
	zlog.Info("server stopped")
}

const sessionSweepInterval = time.Hour

// sweepExpiredSessions deletes expired session rows once at startup and then
// on every tick until the context is cancelled.
func sweepExpiredSessions(ctx context.Context, sessions repository.SessionRepository, zlog *logger.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		if err := sessions.DeleteExpired(ctx); err != nil {
			zlog.Warn("session sweep failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func setupRouter(cfg *config.Config, c *di.Container, zlog *logger.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(zlog))
	router.Use(middleware.CORS())
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware())
	}

	// Probes
	router.GET("/health", c.HealthHandler.Health)
	router.GET("/ready", c.HealthHandler.Ready)

	// Uploaded images
	router.Static(cfg.Storage.PublicPrefix, cfg.Storage.Root)

	api := router.Group("/api")
	{
		// Public
		api.POST("/login", c.AuthHandler.Login)
		api.POST("/register", c.AuthHandler.Register)
		api.GET("/products", c.ProductHandler.List)
		api.GET("/products/:id", c.ProductHandler.Get)
		api.GET("/categories", c.CategoryHandler.List)
		api.GET("/categories/:id", c.CategoryHandler.Get)

		// Authenticated
		authed := api.Group("")
		authed.Use(middleware.Authenticate(c.AuthService))
		{
			authed.POST("/logout", c.AuthHandler.Logout)
			authed.GET("/user", c.AuthHandler.Me)
		}

		// Admin-only catalog mutations
		admin := api.Group("")
		admin.Use(middleware.Authenticate(c.AuthService), middleware.RequireRole(domain.RoleAdmin))
		{
			admin.POST("/products", c.ProductHandler.Create)
			admin.PUT("/products/:id", c.ProductHandler.Update)
			admin.DELETE("/products/:id", c.ProductHandler.Delete)

			admin.POST("/categories", c.CategoryHandler.Create)
			admin.PUT("/categories/:id", c.CategoryHandler.Update)
			admin.DELETE("/categories/:id", c.CategoryHandler.Delete)
		}
	}

	return router
}
