package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestPostgresUserRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)
	now := time.Now()

	user := &domain.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Alice", "alice@example.com", "hashed", "user", now, now).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 7 {
		t.Errorf("expected assigned id 7, got %d", user.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUserRepository_CreateDuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)
	now := time.Now()

	user := &domain.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Alice", "alice@example.com", "hashed", "user", now, now).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), user)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestPostgresUserRepository_GetByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
		AddRow(int64(1), "Admin", "admin@demo.com", "hashed", "admin", now, now)

	mock.ExpectQuery("SELECT id, name, email, password_hash, role, created_at, updated_at").
		WithArgs("admin@demo.com").
		WillReturnRows(rows)

	user, err := repo.GetByEmail(context.Background(), "admin@demo.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected a user")
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected role admin, got %q", user.Role)
	}
}

func TestPostgresUserRepository_GetByEmailNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)

	mock.ExpectQuery("SELECT id, name, email, password_hash, role, created_at, updated_at").
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil for an unknown email, got %+v", user)
	}
}

func TestPostgresUserRepository_ExistsByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected exists to be true")
	}
}
