package domain

import (
	"time"
)

// Category represents a product category
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is the unified product record. Older frontend variants disagreed on
// shape (single vs many categories, status vs isActive, optional sales/stock);
// the catalog boundary reconciles them all onto this struct.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	Stock       int64     `json:"stock"`
	IsActive    bool      `json:"is_active"`
	Image       *string   `json:"image,omitempty"` // public-servable path
	Sales       int64     `json:"sales"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
