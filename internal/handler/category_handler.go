package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
	"github.com/salvadorklaude/powerhouse-store/internal/dto"
	"github.com/salvadorklaude/powerhouse-store/internal/service"
	"github.com/salvadorklaude/powerhouse-store/pkg/logger"
	"github.com/salvadorklaude/powerhouse-store/pkg/response"
)

// CategoryHandler handles category requests
type CategoryHandler struct {
	catalog service.CatalogService
	log     *logger.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(catalog service.CatalogService, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		catalog: catalog,
		log:     log,
	}
}

// List handles GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list categories", zap.Error(err))
		response.InternalError(c)
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

// Get handles GET /api/categories/{id}
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	category, err := h.catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(c, "Category not found.")
			return
		}
		h.log.Error("failed to get category", zap.Int64("id", id), zap.Error(err))
		response.InternalError(c)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, "The given data was invalid.", response.ValidationErrors{
			"name": {"The name field is required."},
		})
		return
	}

	if errs := req.Validate(); errs != nil {
		response.ValidationFailed(c, "The given data was invalid.", errs)
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("failed to create category", zap.Error(err))
		response.InternalError(c)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Update handles PUT /api/categories/{id}
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, "The given data was invalid.", response.ValidationErrors{
			"name": {"The name field is required."},
		})
		return
	}

	if errs := req.Validate(); errs != nil {
		response.ValidationFailed(c, "The given data was invalid.", errs)
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(c, "Category not found.")
			return
		}
		h.log.Error("failed to update category", zap.Int64("id", id), zap.Error(err))
		response.InternalError(c)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id}
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(c, "Category not found.")
			return
		}
		h.log.Error("failed to delete category", zap.Int64("id", id), zap.Error(err))
		response.InternalError(c)
		return
	}
	response.Message(c, http.StatusOK, "Category deleted successfully")
}
