package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sketchpair/sketchpair-server/internal/store"
)

var (
	// ErrInvalidCredentials is returned when username/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when trying to register with an existing username.
	ErrUserExists = errors.New("user already exists")
	// ErrEmailExists is returned when trying to register with an existing email.
	ErrEmailExists = errors.New("email already registered")
	// ErrInvalidUsername is returned when username doesn't meet constraints.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidPassword is returned when password doesn't meet constraints.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidEmail is returned when email doesn't meet constraints.
	ErrInvalidEmail = errors.New("invalid email")
)

// Service provides authentication operations.
type Service struct {
	store     store.UserStore
	jwtConfig *JWTConfig
}

// NewService creates a new authentication service.
func NewService(userStore store.UserStore, jwtConfig *JWTConfig) *Service {
	return &Service{
		store:     userStore,
		jwtConfig: jwtConfig,
	}
}

// Register creates a new user with hashed password and returns a JWT token.
func (s *Service) Register(ctx context.Context, username, password, name, email string) (string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if len(username) < 3 || len(username) > 32 {
		return "", ErrInvalidUsername
	}
	if len(password) < 6 {
		return "", ErrInvalidPassword
	}
	if !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}

	if available, err := s.UsernameAvailable(ctx, username); err != nil {
		return "", err
	} else if !available {
		return "", ErrUserExists
	}
	if available, err := s.EmailAvailable(ctx, email); err != nil {
		return "", err
	} else if !available {
		return "", ErrEmailExists
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, username, strings.TrimSpace(name), email, hashedPassword)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	token, err := GenerateToken(s.jwtConfig, user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}

// Login validates credentials and returns a JWT token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if errPwd := ComparePassword(user.PasswordHash, password); errPwd != nil {
		return "", ErrInvalidCredentials
	}

	token, err := GenerateToken(s.jwtConfig, user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}

// UsernameAvailable reports whether no account holds the given username.
func (s *Service) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	_, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup username: %w", err)
	}
	return false, nil
}

// EmailAvailable reports whether no account holds the given email.
func (s *Service) EmailAvailable(ctx context.Context, email string) (bool, error) {
	_, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup email: %w", err)
	}
	return false, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, tokenString)
}

// VerifyIdentity resolves a token to the username it carries. It backs the
// session core's login verification.
func (s *Service) VerifyIdentity(tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}
