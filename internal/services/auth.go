package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bengin34/rightyLove/internal/models"
	"github.com/bengin34/rightyLove/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService handles registration, login and token validation
type AuthService struct {
	users     UserStore
	jwtSecret string
	expDays   int
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, jwtSecret string, expDays int) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		expDays:   expDays,
		now:       time.Now,
	}
}

// AuthResult is a user plus a signed token
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a new user account and returns it with a token
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		AuthHash:  string(hash),
		CreatedAt: s.now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.AuthHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GenerateJWT generates a JWT token for a user
func (s *AuthService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     s.now().AddDate(0, 0, s.expDays).Unix(),
		"iat":     s.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *AuthService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}
