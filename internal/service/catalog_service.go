package service

import (
	"context"
	"time"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
	"github.com/salvadorklaude/powerhouse-store/internal/dto"
	"github.com/salvadorklaude/powerhouse-store/internal/repository"
)

// CatalogService defines product and category operations
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	// GetProduct returns domain.ErrNotFound when the id is absent
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, req *dto.ProductCreateRequest) (*domain.Product, error)
	// UpdateProduct merges the provided fields only
	UpdateProduct(ctx context.Context, id int64, req *dto.ProductUpdateRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	// SetProductImage records the stored image path for a product
	SetProductImage(ctx context.Context, id int64, path string) (*domain.Product, error)

	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *dto.CategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository) CatalogService {
	return &catalogService{
		products:   products,
		categories: categories,
	}
}

// ListProducts returns the full catalog
func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

// GetProduct returns a product by id
func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// CreateProduct persists a new product from validated fields
func (s *catalogService) CreateProduct(ctx context.Context, req *dto.ProductCreateRequest) (*domain.Product, error) {
	now := time.Now()
	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		CategoryID:  req.CategoryID,
		IsActive:    req.Active(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct merges the provided fields into the existing row; omitted
// fields are left unchanged.
func (s *catalogService) UpdateProduct(ctx context.Context, id int64, req *dto.ProductUpdateRequest) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if active := req.Active(); active != nil {
		product.IsActive = *active
	}
	product.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product
func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

// SetProductImage records the stored image path for a product
func (s *catalogService) SetProductImage(ctx context.Context, id int64, path string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	product.Image = &path
	product.UpdatedAt = time.Now()
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// ListCategories returns all categories
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory returns a category by id
func (s *catalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	return category, nil
}

// CreateCategory persists a new category
func (s *catalogService) CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*domain.Category, error) {
	now := time.Now()
	category := &domain.Category{
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames a category
func (s *catalogService) UpdateCategory(ctx context.Context, id int64, req *dto.CategoryRequest) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	category.Name = req.Name
	category.UpdatedAt = time.Now()
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Deletion is unguarded: products that
// referenced it keep existing with a cleared reference.
func (s *catalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.categories.Delete(ctx, id)
}
