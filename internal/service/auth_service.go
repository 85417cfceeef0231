package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ecomstore/internal/auth"
	apperrors "ecomstore/internal/errors"
	"ecomstore/internal/metrics"
	"ecomstore/internal/model"
	"ecomstore/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = apperrors.Detail(apperrors.ErrUnauthenticated, "invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing email.
	ErrUserAlreadyExists = apperrors.Detail(apperrors.ErrConflict, "user already exists")
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID, role string) (string, error)
	Expiry() time.Duration
}

// LoginResult is a successful login: the session token and the caller's profile.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      model.Profile
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type authService struct {
	store  repository.Store
	tokens TokenIssuer
	hasher auth.PasswordHasher
	now    func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(store repository.Store, tokens TokenIssuer, hasher auth.PasswordHasher) AuthService {
	return &authService{
		store:  store,
		tokens: tokens,
		hasher: hasher,
		now:    time.Now,
	}
}

// Register creates a new user with a hashed password.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "username, email and password are required")
	}

	existing, err := s.store.Users().FindByEmail(ctx, email)
	if err == nil && existing != nil {
		metrics.RecordAuthAttempt("register", "conflict")
		return nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         model.RoleUser,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			metrics.RecordAuthAttempt("register", "conflict")
			return nil, apperrors.Detail(apperrors.ErrConflict, "username or email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.RecordAuthAttempt("register", "success")
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.Users().FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.RecordAuthAttempt("login", "rejected")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Check(password, user.PasswordHash) {
		metrics.RecordAuthAttempt("login", "rejected")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	metrics.RecordAuthAttempt("login", "success")
	return &LoginResult{
		Token:     token,
		ExpiresAt: s.now().Add(s.tokens.Expiry()),
		User:      user.ToProfile(),
	}, nil
}
