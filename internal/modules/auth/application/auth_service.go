package application

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"

	"github.com/captainhq/captain-backend/internal/modules/auth/domain"
	"github.com/captainhq/captain-backend/internal/modules/auth/infrastructure/jwt"
	"github.com/captainhq/captain-backend/internal/shared/utils"
)

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	LocalOnly   bool   `json:"local_only"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	Token string `json:"token"`
}

// AuthService provides authentication operations
type AuthService struct {
	repo                 domain.UserRepository
	jwtSecret            string
	jwtExpiry            time.Duration
	googleTokenValidator func(ctx context.Context, token string, audience string) (*idtoken.Payload, error)
}

func NewAuthService(repo domain.UserRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		repo:                 repo,
		jwtSecret:            jwtSecret,
		jwtExpiry:            jwtExpiry,
		googleTokenValidator: idtoken.Validate,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if req.Email == "" {
		return nil, errors.New("email is required")
	}
	if !utils.IsValidEmail(req.Email) {
		return nil, errors.New("invalid email format")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hashedPass, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var displayName *string
	if req.DisplayName != "" {
		displayName = &req.DisplayName
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashedPass),
		Name:         req.Name,
		DisplayName:  displayName,
		LocalOnly:    req.LocalOnly,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	if req.Email == "" || req.Password == "" {
		return "", errors.New("missing email or password")
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials // don't reveal user existence
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	return jwt.GenerateToken(s.jwtSecret, s.jwtExpiry, user.ID)
}

// GoogleLogin validates a Google ID token, provisioning the account on
// first sign-in, and returns an application JWT.
func (s *AuthService) GoogleLogin(ctx context.Context, googleClientID string, req GoogleLoginRequest) (string, error) {
	validate := s.googleTokenValidator
	if validate == nil {
		validate = idtoken.Validate
	}

	payload, err := validate(ctx, req.Token, googleClientID)
	if err != nil {
		log.Printf("[Auth] google token validate failed: %v", err)
		return "", errors.New("invalid google token")
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	if email == "" {
		return "", errors.New("email not provided by google")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", err
		}
		user = &domain.User{
			ID:          uuid.New(),
			Email:       email,
			Name:        name,
			DisplayName: &name,
			AvatarURL:   &picture,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if createErr := s.repo.Create(ctx, user); createErr != nil {
			return "", createErr
		}
	}

	return jwt.GenerateToken(s.jwtSecret, s.jwtExpiry, user.ID)
}

// GetUser retrieves a user by ID
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenStr string) (*jwt.CustomClaims, error) {
	return jwt.ValidateToken(tokenStr, s.jwtSecret)
}

// ModeSource adapts the user repository for consumers that only ask
// about local-only mode.
type ModeSource struct {
	repo domain.UserRepository
}

func NewModeSource(repo domain.UserRepository) *ModeSource {
	return &ModeSource{repo: repo}
}

func (m *ModeSource) ListLocalOnly(ctx context.Context) ([]uuid.UUID, error) {
	return m.repo.ListLocalOnly(ctx)
}

func (m *ModeSource) IsLocalOnly(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := m.repo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.LocalOnly, nil
}
