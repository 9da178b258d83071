package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
	"github.com/salvadorklaude/powerhouse-store/internal/dto"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	products map[int64]*domain.Product
	nextID   int64
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[int64]*domain.Product),
		nextID:   1,
	}
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	product.ID = m.nextID
	m.nextID++
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (m *MockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	for _, p := range m.products {
		products = append(products, p)
	}
	return products, nil
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	categories map[int64]*domain.Category
	nextID     int64
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[int64]*domain.Category),
		nextID:     1,
	}
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	category.ID = m.nextID
	m.nextID++
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	copied := *category
	return &copied, nil
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func ptrF(v float64) *float64 { return &v }
func ptrI(v int64) *int64     { return &v }
func ptrS(v string) *string   { return &v }
func ptrB(v bool) *bool       { return &v }

func TestCatalogService_CreateProduct(t *testing.T) {
	products := NewMockProductRepository()
	svc := NewCatalogService(products, NewMockCategoryRepository())
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, &dto.ProductCreateRequest{
		Name:        "Sample Product 1",
		Description: "This is a sample product.",
		Price:       ptrF(99.99),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.ID == 0 {
		t.Error("expected an assigned id")
	}
	if product.Price != 99.99 {
		t.Errorf("expected price 99.99, got %v", product.Price)
	}
	if !product.IsActive {
		t.Error("expected products to default to active")
	}
	if product.Stock != 0 {
		t.Errorf("expected stock to default to 0, got %d", product.Stock)
	}
}

func TestCatalogService_CreateProductZeroPrice(t *testing.T) {
	svc := NewCatalogService(NewMockProductRepository(), NewMockCategoryRepository())

	product, err := svc.CreateProduct(context.Background(), &dto.ProductCreateRequest{
		Name:  "Freebie",
		Price: ptrF(0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Price != 0 {
		t.Errorf("expected price 0, got %v", product.Price)
	}
}

func TestCatalogService_UpdateProductPartial(t *testing.T) {
	products := NewMockProductRepository()
	svc := NewCatalogService(products, NewMockCategoryRepository())
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, &dto.ProductCreateRequest{
		Name:        "Widget",
		Description: "Original description",
		Price:       ptrF(10),
		Stock:       ptrI(5),
		CategoryID:  ptrI(3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Renaming only must leave every other field untouched
	updated, err := svc.UpdateProduct(ctx, created.ID, &dto.ProductUpdateRequest{
		Name: ptrS("X"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "X" {
		t.Errorf("expected name X, got %q", updated.Name)
	}
	if updated.Price != 10 {
		t.Errorf("price changed: got %v", updated.Price)
	}
	if updated.Stock != 5 {
		t.Errorf("stock changed: got %d", updated.Stock)
	}
	if updated.CategoryID == nil || *updated.CategoryID != 3 {
		t.Errorf("category changed: got %v", updated.CategoryID)
	}
	if updated.Description != "Original description" {
		t.Errorf("description changed: got %q", updated.Description)
	}
}

func TestCatalogService_UpdateProductStatusAlias(t *testing.T) {
	products := NewMockProductRepository()
	svc := NewCatalogService(products, NewMockCategoryRepository())
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, &dto.ProductCreateRequest{
		Name:  "Widget",
		Price: ptrF(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The legacy status field maps onto is_active
	updated, err := svc.UpdateProduct(ctx, created.ID, &dto.ProductUpdateRequest{
		Status: ptrS("inactive"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.IsActive {
		t.Error("expected status=inactive to clear is_active")
	}
}

func TestCatalogService_UpdateProductNotFound(t *testing.T) {
	svc := NewCatalogService(NewMockProductRepository(), NewMockCategoryRepository())

	_, err := svc.UpdateProduct(context.Background(), 42, &dto.ProductUpdateRequest{
		Name: ptrS("X"),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService_GetProductNotFound(t *testing.T) {
	svc := NewCatalogService(NewMockProductRepository(), NewMockCategoryRepository())

	_, err := svc.GetProduct(context.Background(), 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService_SetProductImage(t *testing.T) {
	products := NewMockProductRepository()
	svc := NewCatalogService(products, NewMockCategoryRepository())
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, &dto.ProductCreateRequest{
		Name:  "Widget",
		Price: ptrF(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.SetProductImage(ctx, created.ID, "/storage/products/abc.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Image == nil || *updated.Image != "/storage/products/abc.png" {
		t.Errorf("expected image path recorded, got %v", updated.Image)
	}
}

func TestCatalogService_Categories(t *testing.T) {
	categories := NewMockCategoryRepository()
	svc := NewCatalogService(NewMockProductRepository(), categories)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, &dto.CategoryRequest{Name: "Electronics"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected an assigned id")
	}

	before := created.UpdatedAt
	time.Sleep(time.Millisecond)
	renamed, err := svc.UpdateCategory(ctx, created.ID, &dto.CategoryRequest{Name: "Gadgets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if renamed.Name != "Gadgets" {
		t.Errorf("expected renamed category, got %q", renamed.Name)
	}
	if !renamed.UpdatedAt.After(before) {
		t.Error("expected updated_at to advance")
	}

	if err := svc.DeleteCategory(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetCategory(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
