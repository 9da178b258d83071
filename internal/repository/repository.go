package repository

import (
	"context"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user and assigns its id
	Create(ctx context.Context, user *domain.User) error
	// GetByID retrieves a user by ID; (nil, nil) when absent
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// GetByEmail retrieves a user by email; (nil, nil) when absent
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ExistsByEmail checks if a user exists with the given email
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SessionRepository defines the interface for issued-token records
type SessionRepository interface {
	// Create creates a new session
	Create(ctx context.Context, session *domain.Session) error
	// GetByToken retrieves a live session by token; (nil, nil) when absent
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	// DeleteByToken removes the session for a token (logout)
	DeleteByToken(ctx context.Context, token string) error
	// DeleteByUserID removes all sessions for a user
	DeleteByUserID(ctx context.Context, userID int64) error
	// DeleteExpired removes sessions past their expiry
	DeleteExpired(ctx context.Context) error
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	// GetByID retrieves a product by ID; (nil, nil) when absent
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	// Update persists the full record; domain.ErrNotFound when absent
	Update(ctx context.Context, product *domain.Product) error
	// Delete removes the row; domain.ErrNotFound when absent
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	// GetByID retrieves a category by ID; (nil, nil) when absent
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	// Update persists the full record; domain.ErrNotFound when absent
	Update(ctx context.Context, category *domain.Category) error
	// Delete removes the row; domain.ErrNotFound when absent.
	// Products referencing the category keep running with a cleared reference.
	Delete(ctx context.Context, id int64) error
}
