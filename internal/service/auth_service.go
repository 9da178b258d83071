package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
	"github.com/salvadorklaude/powerhouse-store/internal/dto"
	"github.com/salvadorklaude/powerhouse-store/internal/repository"
)

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	TokenSecret string
	// TokenTTL of zero issues tokens without an expiry; they stay valid
	// until explicit logout deletes the session row.
	TokenTTL            time.Duration
	BcryptCost          int
	RegistrationEnabled bool
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Login authenticates an email/password pair and issues a token
	Login(ctx context.Context, req *dto.LoginRequest, userAgent, ip string) (*dto.LoginResponse, error)
	// Register creates a new user account
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	// Logout revokes the token; an unknown token is already logged out
	Logout(ctx context.Context, token string) error
	// Me resolves a token to its user
	Me(ctx context.Context, token string) (*domain.User, error)
	// Resolve validates a token and returns its claims
	Resolve(ctx context.Context, token string) (*domain.Claims, error)
}

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	config *AuthServiceConfig,
) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// Login authenticates an email/password pair. Unknown email and wrong
// password both yield ErrInvalidCredentials so the response cannot leak
// which field was wrong.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, userAgent, ip string) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     token,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Message:   "Login successful",
		User:      dto.NewUserResponse(user),
		Token:     token,
		TokenType: "Bearer",
	}, nil
}

// Register creates a new user account with the default role.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	if !s.config.RegistrationEnabled {
		return nil, domain.ErrRegistrationDisabled
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout revokes the token by deleting its session row.
func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.DeleteByToken(ctx, token)
}

// Me resolves a token to its full user record.
func (s *authService) Me(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// Resolve validates the token signature and checks the session row still
// exists, so logged-out tokens are rejected even before any expiry.
func (s *authService) Resolve(ctx context.Context, tokenString string) (*domain.Claims, error) {
	if tokenString == "" {
		return nil, domain.ErrUnauthenticated
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthenticated
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	userID, ok := mapClaims["user_id"].(float64)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)

	session, err := s.sessionRepo.GetByToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}

	return &domain.Claims{
		UserID: int64(userID),
		Email:  email,
		Role:   domain.Role(role),
	}, nil
}

// issueToken signs a fresh token for the user. With no TTL configured the
// token carries no exp claim.
func (s *authService) issueToken(user *domain.User) (string, *time.Time, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"iat":     now.Unix(),
		"jti":     uuid.New().String(),
	}

	var expiresAt *time.Time
	if s.config.TokenTTL > 0 {
		exp := now.Add(s.config.TokenTTL)
		claims["exp"] = exp.Unix()
		expiresAt = &exp
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", nil, err
	}
	return signed, expiresAt, nil
}
