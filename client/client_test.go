package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *SessionStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := NewSessionStore(t.TempDir())
	return NewClient(srv.URL, store), store
}

func TestClient_LoginPersistsSession(t *testing.T) {
	c, store := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("expected Accept application/json, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected Content-Type application/json, got %q", got)
		}

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "admin@demo.com" {
			t.Errorf("unexpected email %q", body["email"])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"message":    "Login successful",
			"user":       map[string]interface{}{"id": 1, "name": "Admin", "email": "admin@demo.com", "role": "admin"},
			"token":      "issued-token",
			"token_type": "Bearer",
		})
	})

	user, err := c.Login(context.Background(), "admin@demo.com", "admin123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != "admin" {
		t.Errorf("expected role admin, got %q", user.Role)
	}

	sess, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Token != "issued-token" || sess.Role != "admin" {
		t.Errorf("session not persisted: %+v", sess)
	}
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var seenAuth string
	c, store := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 1, "name": "Admin", "email": "a@b.co", "role": "admin"})
	})

	if err := store.Save(&Session{Token: "stored-token", Role: "admin"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seenAuth != "Bearer stored-token" {
		t.Errorf("expected bearer header, got %q", seenAuth)
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var sawAuth bool
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization") != ""
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	})

	if _, err := c.Products(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sawAuth {
		t.Error("expected no Authorization header without a session")
	}
}

func TestClient_APIError(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
	})

	_, err := c.Me(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", apiErr.Status)
	}
	if apiErr.Message() != "Unauthenticated." {
		t.Errorf("expected message Unauthenticated., got %q", apiErr.Message())
	}
}

func TestClient_APIErrorUnparsableBody(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.Products(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message() == "" {
		t.Error("expected a fallback message")
	}
}

func TestClient_SingleAttempt(t *testing.T) {
	var calls int
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _ = c.Products(context.Background())
	if calls != 1 {
		t.Errorf("expected exactly one attempt, got %d", calls)
	}
}

func TestClient_LogoutClearsSessionEvenOnServerError(t *testing.T) {
	c, store := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if err := store.Save(&Session{Token: "tok", Role: "user"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := c.Logout(context.Background())
	if err == nil {
		t.Error("expected the server error to surface")
	}

	sess, loadErr := store.Load()
	if loadErr != nil {
		t.Fatalf("unexpected error: %v", loadErr)
	}
	if sess.Authenticated() {
		t.Error("expected local session cleared despite server error")
	}
}

func TestClient_UpdateProductSendsOnlyProvidedFields(t *testing.T) {
	var payload map[string]interface{}
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 1, "name": "X"})
	})

	name := "X"
	if _, err := c.UpdateProduct(context.Background(), 1, &ProductInput{Name: &name}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload["name"] != "X" {
		t.Errorf("expected name in payload, got %v", payload)
	}
	if _, ok := payload["price"]; ok {
		t.Error("expected omitted price to be absent from payload")
	}
}

func TestClient_CreateProductWithImageIsMultipart(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("expected multipart form: %v", err)
		}
		if got := r.FormValue("name"); got != "Pictured" {
			t.Errorf("expected name field, got %q", got)
		}
		if _, header, err := r.FormFile("image"); err != nil || header.Filename != "photo.png" {
			t.Errorf("expected image part photo.png, got %v %v", header, err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 1, "name": "Pictured"})
	})

	name := "Pictured"
	price := 19.99
	product, err := c.CreateProductWithImage(context.Background(),
		&ProductInput{Name: &name, Price: &price},
		"photo.png",
		bytes.NewReader([]byte("\x89PNG\r\n\x1a\n")),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Name != "Pictured" {
		t.Errorf("unexpected product: %+v", product)
	}
}
