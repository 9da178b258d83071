package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
)

// PostgresCategoryRepository implements CategoryRepository using PostgreSQL
type PostgresCategoryRepository struct {
	pool PgxPool
}

// NewPostgresCategoryRepository creates a new PostgresCategoryRepository
func NewPostgresCategoryRepository(pool PgxPool) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{pool: pool}
}

// Create inserts a new category and assigns its id
func (r *PostgresCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.pool.QueryRow(ctx, query,
		category.Name,
		category.CreatedAt,
		category.UpdatedAt,
	).Scan(&category.ID)
}

// GetByID retrieves a category by ID
func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM categories
		WHERE id = $1
	`
	category := &domain.Category{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return category, nil
}

// List retrieves all categories
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM categories
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category := &domain.Category{}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.CreatedAt,
			&category.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Update persists the full record
func (r *PostgresCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $2, updated_at = $3
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, category.ID, category.Name, category.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the row. Referencing products keep running with a cleared
// category (ON DELETE SET NULL), matching the unguarded delete the frontend
// expects.
func (r *PostgresCategoryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM categories WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
