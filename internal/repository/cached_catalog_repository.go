package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
)

const (
	productDetailKeyPrefix  = "product:detail:"
	productListKey          = "product:list"
	categoryDetailKeyPrefix = "category:detail:"
	categoryListKey         = "category:list"

	catalogCacheTTL = 5 * time.Minute
)

// CacheClient is the subset of Redis operations the catalog cache needs.
// Implemented by pkg/redis.Client and by fakes in tests.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedProductRepository wraps ProductRepository with a Redis read-through
// cache. Mutations invalidate; a cold or failing cache degrades to the
// underlying store.
type CachedProductRepository struct {
	repo  ProductRepository
	cache CacheClient
}

// NewCachedProductRepository creates a new CachedProductRepository
func NewCachedProductRepository(repo ProductRepository, cache CacheClient) *CachedProductRepository {
	return &CachedProductRepository{repo: repo, cache: cache}
}

// Create creates a product and invalidates the list cache
func (r *CachedProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.repo.Create(ctx, product); err != nil {
		return err
	}
	r.cache.Del(ctx, productListKey)
	return nil
}

// GetByID retrieves a product with caching
func (r *CachedProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	cacheKey := productDetailKeyPrefix + strconv.FormatInt(id, 10)
	if cached, err := r.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
		var product domain.Product
		if err := json.Unmarshal([]byte(cached), &product); err == nil {
			return &product, nil
		}
	}

	product, err := r.repo.GetByID(ctx, id)
	if err != nil || product == nil {
		return product, err
	}

	if data, err := json.Marshal(product); err == nil {
		r.cache.Set(ctx, cacheKey, data, catalogCacheTTL)
	}
	return product, nil
}

// List retrieves all products with caching
func (r *CachedProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	if cached, err := r.cache.Get(ctx, productListKey).Result(); err == nil && cached != "" {
		var products []*domain.Product
		if err := json.Unmarshal([]byte(cached), &products); err == nil {
			return products, nil
		}
	}

	products, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		r.cache.Set(ctx, productListKey, data, catalogCacheTTL)
	}
	return products, nil
}

// Update updates a product and invalidates its caches
func (r *CachedProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if err := r.repo.Update(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx, product.ID)
	return nil
}

// Delete deletes a product and invalidates its caches
func (r *CachedProductRepository) Delete(ctx context.Context, id int64) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedProductRepository) invalidate(ctx context.Context, id int64) {
	r.cache.Del(ctx, productListKey, productDetailKeyPrefix+strconv.FormatInt(id, 10))
}

// CachedCategoryRepository wraps CategoryRepository with the same
// read-through caching as products.
type CachedCategoryRepository struct {
	repo  CategoryRepository
	cache CacheClient
}

// NewCachedCategoryRepository creates a new CachedCategoryRepository
func NewCachedCategoryRepository(repo CategoryRepository, cache CacheClient) *CachedCategoryRepository {
	return &CachedCategoryRepository{repo: repo, cache: cache}
}

// Create creates a category and invalidates the list cache
func (r *CachedCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if err := r.repo.Create(ctx, category); err != nil {
		return err
	}
	r.cache.Del(ctx, categoryListKey)
	return nil
}

// GetByID retrieves a category with caching
func (r *CachedCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	cacheKey := categoryDetailKeyPrefix + strconv.FormatInt(id, 10)
	if cached, err := r.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
		var category domain.Category
		if err := json.Unmarshal([]byte(cached), &category); err == nil {
			return &category, nil
		}
	}

	category, err := r.repo.GetByID(ctx, id)
	if err != nil || category == nil {
		return category, err
	}

	if data, err := json.Marshal(category); err == nil {
		r.cache.Set(ctx, cacheKey, data, catalogCacheTTL)
	}
	return category, nil
}

// List retrieves all categories with caching
func (r *CachedCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	if cached, err := r.cache.Get(ctx, categoryListKey).Result(); err == nil && cached != "" {
		var categories []*domain.Category
		if err := json.Unmarshal([]byte(cached), &categories); err == nil {
			return categories, nil
		}
	}

	categories, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(categories); err == nil {
		r.cache.Set(ctx, categoryListKey, data, catalogCacheTTL)
	}
	return categories, nil
}

// Update updates a category and invalidates its caches
func (r *CachedCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if err := r.repo.Update(ctx, category); err != nil {
		return err
	}
	r.invalidate(ctx, category.ID)
	return nil
}

// Delete deletes a category and invalidates its caches. Product caches are
// cleared too since rows may have had their category reference nulled.
func (r *CachedCategoryRepository) Delete(ctx context.Context, id int64) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	r.cache.Del(ctx, productListKey)
	return nil
}

func (r *CachedCategoryRepository) invalidate(ctx context.Context, id int64) {
	r.cache.Del(ctx, categoryListKey, categoryDetailKeyPrefix+strconv.FormatInt(id, 10))
}
