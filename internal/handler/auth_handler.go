// Package handler exposes the HTTP surface of the storefront API.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
	"github.com/salvadorklaude/powerhouse-store/internal/dto"
	"github.com/salvadorklaude/powerhouse-store/internal/middleware"
	"github.com/salvadorklaude/powerhouse-store/internal/service"
	"github.com/salvadorklaude/powerhouse-store/pkg/logger"
	"github.com/salvadorklaude/powerhouse-store/pkg/response"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	auth service.AuthService
	log  *logger.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log,
	}
}

// bindErrors reports field errors for a request whose body failed to bind.
// Fields decoded before the failure keep their values, so validating the
// partial request names the fields that are actually missing or invalid.
func bindErrors(v interface{ Validate() response.ValidationErrors }) response.ValidationErrors {
	if errs := v.Validate(); errs != nil {
		return errs
	}
	return response.ValidationErrors{
		"body": {"The request body is malformed."},
	}
}

// Login handles POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, "The given data was invalid.", bindErrors(&req))
		return
	}

	if errs := req.Validate(); errs != nil {
		response.ValidationFailed(c, "The given data was invalid.", errs)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			// Same payload for unknown email and wrong password
			response.ValidationFailed(c, "These credentials do not match our records.", response.ValidationErrors{
				"email": {"These credentials do not match our records."},
			})
			return
		}
		h.log.Error("login failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Register handles POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, "The given data was invalid.", bindErrors(&req))
		return
	}

	if errs := req.Validate(); errs != nil {
		response.ValidationFailed(c, "The given data was invalid.", errs)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			response.ValidationFailed(c, "The given data was invalid.", response.ValidationErrors{
				"email": {"The email has already been taken."},
			})
		case errors.Is(err, domain.ErrRegistrationDisabled):
			response.Message(c, http.StatusForbidden, "Registration is disabled.")
		default:
			h.log.Error("registration failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user":    dto.NewUserResponse(user),
	})
}

// Logout handles POST /api/logout. Runs behind Authenticate, so the token in
// context has already been resolved.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextTokenKey)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		h.log.Error("logout failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.Message(c, http.StatusOK, "Logged out successfully")
}

// Me handles GET /api/user
func (h *AuthHandler) Me(c *gin.Context) {
	token := c.GetString(middleware.ContextTokenKey)
	user, err := h.auth.Me(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			response.Unauthenticated(c)
			return
		}
		h.log.Error("failed to resolve current user", zap.Error(err))
		response.InternalError(c)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}
