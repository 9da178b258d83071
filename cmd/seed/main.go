// Command seed provisions the demo admin account and sample catalog data.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
	"github.com/salvadorklaude/powerhouse-store/internal/migrate"
	"github.com/salvadorklaude/powerhouse-store/internal/repository"
	"github.com/salvadorklaude/powerhouse-store/pkg/config"
	"github.com/salvadorklaude/powerhouse-store/pkg/database"
	"github.com/salvadorklaude/powerhouse-store/pkg/logger"
)

const (
	adminEmail    = "admin@demo.com"
	adminPassword = "admin123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name + "-seed",
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrate.Up(ctx, cfg.Database.DSN()); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: 5,
		MinConns: 1,
	})
	if err != nil {
		zlog.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := seed(ctx, db, cfg, zlog); err != nil {
		zlog.Fatal("seeding failed", zap.Error(err))
	}
	zlog.Info("seeding complete")
}

func seed(ctx context.Context, db *database.PostgresDB, cfg *config.Config, zlog *logger.Logger) error {
	users := repository.NewPostgresUserRepository(db.Pool())
	products := repository.NewPostgresProductRepository(db.Pool())

	exists, err := users.ExistsByEmail(ctx, adminEmail)
	if err != nil {
		return err
	}
	if exists {
		zlog.Info("admin account already present, skipping")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &domain.User{
		Name:         "Admin",
		Email:        adminEmail,
		PasswordHash: string(hashed),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	zlog.Info("created admin account", zap.String("email", adminEmail))

	samples := []*domain.Product{
		{
			Name:        "Sample Product 1",
			Description: "This is a sample product.",
			Price:       99.99,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			Name:        "Sample Product 2",
			Description: "Another sample product.",
			Price:       149.99,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	for _, p := range samples {
		if err := products.Create(ctx, p); err != nil {
			return err
		}
		zlog.Info("created product", zap.String("name", p.Name), zap.Int64("id", p.ID))
	}

	return nil
}
