package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// APIError is the uniform failure for any non-2xx response. Callers surface
// it as a user-facing message; nothing is retried.
type APIError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d", e.Status)
}

// Message extracts the server's {"message": ...} field when present, falling
// back to a generic description.
func (e *APIError) Message() string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(e.Body), &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Product is the wire shape of a catalog product.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  *int64  `json:"category_id,omitempty"`
	Stock       int64   `json:"stock"`
	IsActive    bool    `json:"is_active"`
	Image       *string `json:"image,omitempty"`
	Sales       int64   `json:"sales"`
}

// Category is the wire shape of a catalog category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductInput carries product create/update fields; nil fields are omitted
// so server-side partial update semantics apply.
type ProductInput struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	CategoryID  *int64   `json:"category_id,omitempty"`
	Stock       *int64   `json:"stock,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// Client is the thin request layer over the storefront API. It attaches the
// persisted bearer token and raises *APIError on any non-2xx response.
// One attempt per call; the only resilience is the bounded timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   *SessionStore
}

// NewClient creates an API client against the given base URL.
func NewClient(baseURL string, sessions *SessionStore) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		sessions:   sessions,
	}
}

// do issues one request. contentType is empty for bodyless requests and for
// multipart bodies that carry their own boundary-bearing type.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	sess, err := c.sessions.Load()
	if err != nil {
		return nil, err
	}
	if sess.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// doJSON issues a request with an optional JSON body, decoding the response
// into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	data, err := c.do(ctx, method, path, reader, contentType)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Login authenticates and persists the resulting session.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp struct {
		Message   string `json:"message"`
		User      User   `json:"user"`
		Token     string `json:"token"`
		TokenType string `json:"token_type"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", body, &resp); err != nil {
		return nil, err
	}

	sess := &Session{
		Token: resp.Token,
		Role:  resp.User.Role,
		User:  &resp.User,
	}
	if err := c.sessions.Save(sess); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register creates a new account. It does not log the user in.
func (c *Client) Register(ctx context.Context, name, email, password, confirmation string) (*User, error) {
	var resp struct {
		Message string `json:"message"`
		User    User   `json:"user"`
	}
	body := map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": confirmation,
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout revokes the token server-side and clears the persisted session.
// Local state is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	reqErr := c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil)
	if err := c.sessions.Clear(); err != nil {
		return err
	}
	return reqErr
}

// Me returns the user the current token resolves to.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/api/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Products lists the full catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches one product by id.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/products/"+strconv.FormatInt(id, 10), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a product from JSON fields.
func (c *Client) CreateProduct(ctx context.Context, input *ProductInput) (*Product, error) {
	var product Product
	if err := c.doJSON(ctx, http.MethodPost, "/api/products", input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProductWithImage creates a product from a multipart form carrying an
// image part.
func (c *Client) CreateProductWithImage(ctx context.Context, input *ProductInput, filename string, image io.Reader) (*Product, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := writeProductFields(w, input); err != nil {
		return nil, err
	}
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "/api/products", &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var product Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &product, nil
}

// UpdateProduct applies a partial update; nil input fields are untouched.
func (c *Client) UpdateProduct(ctx context.Context, id int64, input *ProductInput) (*Product, error) {
	var product Product
	if err := c.doJSON(ctx, http.MethodPut, "/api/products/"+strconv.FormatInt(id, 10), input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/products/"+strconv.FormatInt(id, 10), nil, nil)
}

// Categories lists all categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.doJSON(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Category fetches one category by id.
func (c *Client) Category(ctx context.Context, id int64) (*Category, error) {
	var category Category
	if err := c.doJSON(ctx, http.MethodGet, "/api/categories/"+strconv.FormatInt(id, 10), nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, name string) (*Category, error) {
	var category Category
	body := map[string]string{"name": name}
	if err := c.doJSON(ctx, http.MethodPost, "/api/categories", body, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory renames a category.
func (c *Client) UpdateCategory(ctx context.Context, id int64, name string) (*Category, error) {
	var category Category
	body := map[string]string{"name": name}
	if err := c.doJSON(ctx, http.MethodPut, "/api/categories/"+strconv.FormatInt(id, 10), body, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/categories/"+strconv.FormatInt(id, 10), nil, nil)
}

func writeProductFields(w *multipart.Writer, input *ProductInput) error {
	if input == nil {
		return nil
	}
	fields := map[string]string{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Price != nil {
		fields["price"] = strconv.FormatFloat(*input.Price, 'f', -1, 64)
	}
	if input.CategoryID != nil {
		fields["category_id"] = strconv.FormatInt(*input.CategoryID, 10)
	}
	if input.Stock != nil {
		fields["stock"] = strconv.FormatInt(*input.Stock, 10)
	}
	if input.IsActive != nil {
		fields["is_active"] = strconv.FormatBool(*input.IsActive)
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to build upload: %w", err)
		}
	}
	return nil
}
