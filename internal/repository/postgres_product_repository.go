package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
)

// PostgresProductRepository implements ProductRepository using PostgreSQL
type PostgresProductRepository struct {
	pool PgxPool
}

// NewPostgresProductRepository creates a new PostgresProductRepository
func NewPostgresProductRepository(pool PgxPool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

// Create inserts a new product and assigns its id
func (r *PostgresProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, category_id, stock, is_active, image, sales, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.pool.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		product.Stock,
		product.IsActive,
		product.Image,
		product.Sales,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)
}

// GetByID retrieves a product by ID
func (r *PostgresProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price, category_id, stock, is_active, image, sales, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	product := &domain.Product{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.CategoryID,
		&product.Stock,
		&product.IsActive,
		&product.Image,
		&product.Sales,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return product, nil
}

// List retrieves all products. Unfiltered and unpaginated; the storefront
// renders the full catalog.
func (r *PostgresProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, name, description, price, category_id, stock, is_active, image, sales, created_at, updated_at
		FROM products
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.CategoryID,
			&product.Stock,
			&product.IsActive,
			&product.Image,
			&product.Sales,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// Update persists the full record
func (r *PostgresProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category_id = $5, stock = $6,
		    is_active = $7, image = $8, sales = $9, updated_at = $10
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		product.Stock,
		product.IsActive,
		product.Image,
		product.Sales,
		product.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the row
func (r *PostgresProductRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
