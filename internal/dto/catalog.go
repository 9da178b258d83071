package dto

import (
	"github.com/salvadorklaude/powerhouse-store/pkg/response"
)

const (
	statusActive   = "active"
	statusInactive = "inactive"
)

// CategoryRequest carries category create/update fields
type CategoryRequest struct {
	Name string `json:"name" form:"name"`
}

// Validate checks the category fields, returning per-field errors.
func (r *CategoryRequest) Validate() response.ValidationErrors {
	errs := response.ValidationErrors{}
	if r.Name == "" {
		errs.Add("name", "The name field is required.")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ProductCreateRequest carries product creation fields. It accepts both JSON
// and multipart form encodings, and tolerates the legacy `status` field in
// place of `is_active`.
type ProductCreateRequest struct {
	Name        string   `json:"name" form:"name"`
	Description string   `json:"description" form:"description"`
	Price       *float64 `json:"price" form:"price"`
	CategoryID  *int64   `json:"category_id" form:"category_id"`
	Stock       *int64   `json:"stock" form:"stock"`
	IsActive    *bool    `json:"is_active" form:"is_active"`
	Status      string   `json:"status" form:"status"` // legacy: active|inactive
}

// Validate checks the product fields, returning per-field errors.
func (r *ProductCreateRequest) Validate() response.ValidationErrors {
	errs := response.ValidationErrors{}
	if r.Name == "" {
		errs.Add("name", "The name field is required.")
	}
	if r.Price == nil {
		errs.Add("price", "The price field is required.")
	} else if *r.Price < 0 {
		errs.Add("price", "The price field must be at least 0.")
	}
	if r.Stock != nil && *r.Stock < 0 {
		errs.Add("stock", "The stock field must be at least 0.")
	}
	if r.Status != "" && r.Status != statusActive && r.Status != statusInactive {
		errs.Add("status", "The selected status is invalid.")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Active resolves is_active from whichever field the client sent.
// Defaults to true when neither form is present.
func (r *ProductCreateRequest) Active() bool {
	if r.IsActive != nil {
		return *r.IsActive
	}
	if r.Status != "" {
		return r.Status == statusActive
	}
	return true
}

// ProductUpdateRequest carries partial product updates; nil fields are left
// unchanged.
type ProductUpdateRequest struct {
	Name        *string  `json:"name" form:"name"`
	Description *string  `json:"description" form:"description"`
	Price       *float64 `json:"price" form:"price"`
	CategoryID  *int64   `json:"category_id" form:"category_id"`
	Stock       *int64   `json:"stock" form:"stock"`
	IsActive    *bool    `json:"is_active" form:"is_active"`
	Status      *string  `json:"status" form:"status"` // legacy: active|inactive
}

// Validate checks the provided fields only.
func (r *ProductUpdateRequest) Validate() response.ValidationErrors {
	errs := response.ValidationErrors{}
	if r.Name != nil && *r.Name == "" {
		errs.Add("name", "The name field is required.")
	}
	if r.Price != nil && *r.Price < 0 {
		errs.Add("price", "The price field must be at least 0.")
	}
	if r.Stock != nil && *r.Stock < 0 {
		errs.Add("stock", "The stock field must be at least 0.")
	}
	if r.Status != nil && *r.Status != statusActive && *r.Status != statusInactive {
		errs.Add("status", "The selected status is invalid.")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Active resolves the requested is_active change, or nil when untouched.
func (r *ProductUpdateRequest) Active() *bool {
	if r.IsActive != nil {
		return r.IsActive
	}
	if r.Status != nil {
		active := *r.Status == statusActive
		return &active
	}
	return nil
}
