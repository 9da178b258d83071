package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
	"github.com/salvadorklaude/powerhouse-store/internal/middleware"
	"github.com/salvadorklaude/powerhouse-store/internal/repository"
	"github.com/salvadorklaude/powerhouse-store/internal/service"
	"github.com/salvadorklaude/powerhouse-store/internal/storage"
	"github.com/salvadorklaude/powerhouse-store/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	_ repository.UserRepository     = (*memUserRepo)(nil)
	_ repository.SessionRepository  = (*memSessionRepo)(nil)
	_ repository.ProductRepository  = (*memProductRepo)(nil)
	_ repository.CategoryRepository = (*memCategoryRepo)(nil)
)

// memUserRepo is an in-memory UserRepository
type memUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (m *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, _ := m.GetByEmail(ctx, email)
	return u != nil, nil
}

func (m *memUserRepo) add(name, email, password string, role domain.Role) *domain.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &domain.User{
		ID:           m.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.nextID++
	m.users[user.ID] = user
	return user
}

// memSessionRepo is an in-memory SessionRepository
type memSessionRepo struct {
	sessions map[string]*domain.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (m *memSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	m.sessions[session.Token] = session
	return nil
}

func (m *memSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	session, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	return session, nil
}

func (m *memSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func (m *memSessionRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	for token, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, token)
		}
	}
	return nil
}

func (m *memSessionRepo) DeleteExpired(ctx context.Context) error { return nil }

// memProductRepo is an in-memory ProductRepository
type memProductRepo struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[int64]*domain.Product), nextID: 1}
}

func (m *memProductRepo) Create(ctx context.Context, product *domain.Product) error {
	product.ID = m.nextID
	m.nextID++
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *memProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (m *memProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	for _, p := range m.products {
		products = append(products, p)
	}
	return products, nil
}

func (m *memProductRepo) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *memProductRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

// memCategoryRepo is an in-memory CategoryRepository
type memCategoryRepo struct {
	categories map[int64]*domain.Category
	nextID     int64
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: make(map[int64]*domain.Category), nextID: 1}
}

func (m *memCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	category.ID = m.nextID
	m.nextID++
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *memCategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	copied := *category
	return &copied, nil
}

func (m *memCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

func (m *memCategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *memCategoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

// testEnv is the full HTTP surface over in-memory stores
type testEnv struct {
	router   *gin.Engine
	users    *memUserRepo
	sessions *memSessionRepo
	products *memProductRepo
	images   *storage.ImageStore
	auth     service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	products := newMemProductRepo()
	categories := newMemCategoryRepo()

	auth := service.NewAuthService(users, sessions, &service.AuthServiceConfig{
		TokenSecret:         "test-secret",
		BcryptCost:          bcrypt.MinCost,
		RegistrationEnabled: true,
	})
	catalog := service.NewCatalogService(products, categories)
	images := storage.NewImageStore(t.TempDir(), "/storage", 2<<20)
	log := logger.Get()

	authHandler := NewAuthHandler(auth, log)
	productHandler := NewProductHandler(catalog, images, log)
	categoryHandler := NewCategoryHandler(catalog, log)

	router := gin.New()
	api := router.Group("/api")
	{
		api.POST("/login", authHandler.Login)
		api.POST("/register", authHandler.Register)
		api.GET("/products", productHandler.List)
		api.GET("/products/:id", productHandler.Get)
		api.GET("/categories", categoryHandler.List)
		api.GET("/categories/:id", categoryHandler.Get)

		authed := api.Group("")
		authed.Use(middleware.Authenticate(auth))
		{
			authed.POST("/logout", authHandler.Logout)
			authed.GET("/user", authHandler.Me)
		}

		admin := api.Group("")
		admin.Use(middleware.Authenticate(auth), middleware.RequireRole(domain.RoleAdmin))
		{
			admin.POST("/products", productHandler.Create)
			admin.PUT("/products/:id", productHandler.Update)
			admin.DELETE("/products/:id", productHandler.Delete)

			admin.POST("/categories", categoryHandler.Create)
			admin.PUT("/categories/:id", categoryHandler.Update)
			admin.DELETE("/categories/:id", categoryHandler.Delete)
		}
	}

	return &testEnv{
		router:   router,
		users:    users,
		sessions: sessions,
		products: products,
		images:   images,
		auth:     auth,
	}
}

// request performs one request against the test router
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// loginAs seeds a user and returns a live token
func (e *testEnv) loginAs(t *testing.T, email, password string, role domain.Role) string {
	t.Helper()
	e.users.add("Test User", email, password, role)

	w := e.request(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return resp.Token
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}
