// Package di wires repositories, services and handlers together.
package di

import (
	"github.com/salvadorklaude/powerhouse-store/internal/handler"
	"github.com/salvadorklaude/powerhouse-store/internal/repository"
	"github.com/salvadorklaude/powerhouse-store/internal/service"
	"github.com/salvadorklaude/powerhouse-store/internal/storage"
	"github.com/salvadorklaude/powerhouse-store/pkg/config"
	"github.com/salvadorklaude/powerhouse-store/pkg/database"
	"github.com/salvadorklaude/powerhouse-store/pkg/logger"
	"github.com/salvadorklaude/powerhouse-store/pkg/redis"
)

// Container holds all dependencies for the storefront API
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	UserRepo     repository.UserRepository
	SessionRepo  repository.SessionRepository
	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository

	// Services
	AuthService    service.AuthService
	CatalogService service.CatalogService

	// Storage
	ImageStore *storage.ImageStore

	// Handlers
	HealthHandler   *handler.HealthHandler
	AuthHandler     *handler.AuthHandler
	ProductHandler  *handler.ProductHandler
	CategoryHandler *handler.CategoryHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config *config.Config
	DB     *database.PostgresDB
	Redis  *redis.Client
	Logger *logger.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:    cfg.DB,
		Redis: cfg.Redis,
	}

	pool := cfg.DB.Pool()

	// Repositories; catalog reads go through the Redis cache
	c.UserRepo = repository.NewPostgresUserRepository(pool)
	c.SessionRepo = repository.NewPostgresSessionRepository(pool)
	c.ProductRepo = repository.NewCachedProductRepository(
		repository.NewPostgresProductRepository(pool),
		cfg.Redis,
	)
	c.CategoryRepo = repository.NewCachedCategoryRepository(
		repository.NewPostgresCategoryRepository(pool),
		cfg.Redis,
	)

	// Services
	c.AuthService = service.NewAuthService(c.UserRepo, c.SessionRepo, &service.AuthServiceConfig{
		TokenSecret:         cfg.Config.Auth.TokenSecret,
		TokenTTL:            cfg.Config.Auth.TokenTTL,
		BcryptCost:          cfg.Config.Auth.BcryptCost,
		RegistrationEnabled: cfg.Config.Auth.RegistrationEnabled,
	})
	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.CategoryRepo)

	// Storage
	c.ImageStore = storage.NewImageStore(
		cfg.Config.Storage.Root,
		cfg.Config.Storage.PublicPrefix,
		cfg.Config.Storage.MaxUploadSize,
	)

	// Handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis, cfg.Config.App.Name)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService, cfg.Logger)
	c.ProductHandler = handler.NewProductHandler(c.CatalogService, c.ImageStore, cfg.Logger)
	c.CategoryHandler = handler.NewCategoryHandler(c.CatalogService, cfg.Logger)

	return c
}
