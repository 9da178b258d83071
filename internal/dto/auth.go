package dto

import (
	"regexp"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
	"github.com/salvadorklaude/powerhouse-store/pkg/response"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login fields, returning per-field errors.
func (r *LoginRequest) Validate() response.ValidationErrors {
	errs := response.ValidationErrors{}
	if r.Email == "" {
		errs.Add("email", "The email field is required.")
	} else if !emailRegex.MatchString(r.Email) {
		errs.Add("email", "The email field must be a valid email address.")
	}
	if r.Password == "" {
		errs.Add("password", "The password field is required.")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Validate checks the registration fields, returning per-field errors.
func (r *RegisterRequest) Validate() response.ValidationErrors {
	errs := response.ValidationErrors{}
	if r.Name == "" {
		errs.Add("name", "The name field is required.")
	} else if len(r.Name) < 2 {
		errs.Add("name", "The name field must be at least 2 characters.")
	}
	if r.Email == "" {
		errs.Add("email", "The email field is required.")
	} else if !emailRegex.MatchString(r.Email) {
		errs.Add("email", "The email field must be a valid email address.")
	}
	switch {
	case r.Password == "":
		errs.Add("password", "The password field is required.")
	case len(r.Password) < 8:
		errs.Add("password", "The password field must be at least 8 characters.")
	case len(r.Password) > 72:
		errs.Add("password", "The password field must not exceed 72 characters.")
	case r.Password != r.PasswordConfirmation:
		errs.Add("password", "The password field confirmation does not match.")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewUserResponse converts a domain user to its response form.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

// LoginResponse is the wire shape of a successful login
type LoginResponse struct {
	Message   string       `json:"message"`
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
}

// RegisterResponse wraps the created user
type RegisterResponse struct {
	User UserResponse `json:"user"`
}
