package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
	"github.com/salvadorklaude/powerhouse-store/internal/dto"
	"github.com/salvadorklaude/powerhouse-store/internal/service"
	"github.com/salvadorklaude/powerhouse-store/internal/storage"
	"github.com/salvadorklaude/powerhouse-store/pkg/logger"
	"github.com/salvadorklaude/powerhouse-store/pkg/response"
)

// ProductHandler handles product catalog requests
type ProductHandler struct {
	catalog service.CatalogService
	images  *storage.ImageStore
	log     *logger.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, images *storage.ImageStore, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		images:  images,
		log:     log,
	}
}

// pathID parses the {id} path segment. Writes a 404 and returns false when it
// is not a valid integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "Not found.")
		return 0, false
	}
	return id, true
}

// isMultipart reports whether the request body is multipart form data.
func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// List handles GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list products", zap.Error(err))
		response.InternalError(c)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(c, "Product not found.")
			return
		}
		h.log.Error("failed to get product", zap.Int64("id", id), zap.Error(err))
		response.InternalError(c)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Create handles POST /api/products. Accepts JSON, or multipart form data
// with an optional image part.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductCreateRequest
	multipart := isMultipart(c)

	if multipart {
		if err := c.ShouldBind(&req); err != nil {
			response.ValidationFailed(c, "The given data was invalid.", response.ValidationErrors{
				"name": {"The name field is required."},
			})
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, "The given data was invalid.", response.ValidationErrors{
				"name": {"The name field is required."},
			})
			return
		}
	}

	if errs := req.Validate(); errs != nil {
		response.ValidationFailed(c, "The given data was invalid.", errs)
		return
	}

	// Validate and store the image before touching the database, so a bad
	// upload leaves no partial product behind.
	var imagePath string
	if multipart {
		if fh, err := c.FormFile("image"); err == nil {
			imagePath, err = h.images.SaveProductImage(fh)
			if err != nil {
				h.writeImageError(c, err)
				return
			}
		}
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		h.discardImage(imagePath)
		h.log.Error("failed to create product", zap.Error(err))
		response.InternalError(c)
		return
	}

	if imagePath != "" {
		product, err = h.catalog.SetProductImage(c.Request.Context(), product.ID, imagePath)
		if err != nil {
			h.discardImage(imagePath)
			h.log.Error("failed to record product image", zap.Int64("id", product.ID), zap.Error(err))
			response.InternalError(c)
			return
		}
	}

	c.JSON(http.StatusCreated, product)
}

// Update handles PUT /api/products/{id}. Only the provided fields change.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.ProductUpdateRequest
	multipart := isMultipart(c)

	if multipart {
		if err := c.ShouldBind(&req); err != nil {
			response.ValidationFailed(c, "The given data was invalid.", response.ValidationErrors{
				"name": {"The name field is invalid."},
			})
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, "The given data was invalid.", response.ValidationErrors{
				"name": {"The name field is invalid."},
			})
			return
		}
	}

	if errs := req.Validate(); errs != nil {
		response.ValidationFailed(c, "The given data was invalid.", errs)
		return
	}

	var imagePath string
	if multipart {
		if fh, err := c.FormFile("image"); err == nil {
			imagePath, err = h.images.SaveProductImage(fh)
			if err != nil {
				h.writeImageError(c, err)
				return
			}
		}
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		h.discardImage(imagePath)
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(c, "Product not found.")
			return
		}
		h.log.Error("failed to update product", zap.Int64("id", id), zap.Error(err))
		response.InternalError(c)
		return
	}

	if imagePath != "" {
		product, err = h.catalog.SetProductImage(c.Request.Context(), id, imagePath)
		if err != nil {
			h.discardImage(imagePath)
			h.log.Error("failed to record product image", zap.Int64("id", id), zap.Error(err))
			response.InternalError(c)
			return
		}
	}

	c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id}
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(c, "Product not found.")
			return
		}
		h.log.Error("failed to delete product", zap.Int64("id", id), zap.Error(err))
		response.InternalError(c)
		return
	}
	response.Message(c, http.StatusOK, "Product deleted successfully")
}

// discardImage removes a stored image that never made it onto a product.
func (h *ProductHandler) discardImage(path string) {
	if path == "" {
		return
	}
	if err := h.images.Remove(path); err != nil {
		h.log.Warn("failed to remove orphaned image", zap.String("path", path), zap.Error(err))
	}
}

func (h *ProductHandler) writeImageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		response.PayloadTooLarge(c, "The image must not be greater than 2048 kilobytes.")
	case errors.Is(err, storage.ErrUnsupportedType):
		response.UnsupportedMediaType(c, "The image must be a file of type: jpeg, png, gif, webp.")
	default:
		h.log.Error("failed to store product image", zap.Error(err))
		response.InternalError(c)
	}
}
