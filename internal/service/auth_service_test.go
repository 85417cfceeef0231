package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ecomstore/internal/auth"
	apperrors "ecomstore/internal/errors"
	"ecomstore/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		email         string
		password      string
		setupMock     func(*MockStore)
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "jane",
			email:    "jane@example.com",
			password: "password123",
			setupMock: func(m *MockStore) {
				m.users.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:     "email already registered",
			username: "jane",
			email:    "taken@example.com",
			password: "password123",
			setupMock: func(m *MockStore) {
				m.users.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{Email: "taken@example.com"}, nil)
			},
			expectedError: apperrors.ErrConflict,
		},
		{
			name:     "username collides at the unique index",
			username: "jane",
			email:    "jane2@example.com",
			password: "password123",
			setupMock: func(m *MockStore) {
				m.users.On("FindByEmail", mock.Anything, "jane2@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrConflict,
		},
		{
			name:          "missing password",
			username:      "jane",
			email:         "jane@example.com",
			setupMock:     func(*MockStore) {},
			expectedError: apperrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			tt.setupMock(store)

			svc := NewAuthService(store, auth.NewJWTService("test-secret", time.Hour), auth.NewBcryptHasher())
			user, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.username, user.Username)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.True(t, auth.NewBcryptHasher().Check(tt.password, user.PasswordHash))
			}

			store.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hasher := auth.NewBcryptHasher()
	hashed, err := hasher.Hash("password123")
	require.NoError(t, err)

	userID := uuid.New()
	stored := &model.User{
		ID:           userID,
		Username:     "jane",
		Email:        "jane@example.com",
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
	}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockStore)
		expectedError error
		wantInternal  bool
	}{
		{
			name:     "successful login",
			email:    "jane@example.com",
			password: "password123",
			setupMock: func(m *MockStore) {
				m.users.On("FindByEmail", mock.Anything, "jane@example.com").Return(stored, nil)
			},
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(m *MockStore) {
				m.users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUnauthenticated,
		},
		{
			name:     "wrong password",
			email:    "jane@example.com",
			password: "wrongpassword",
			setupMock: func(m *MockStore) {
				m.users.On("FindByEmail", mock.Anything, "jane@example.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrUnauthenticated,
		},
		{
			name:     "store failure is not an auth failure",
			email:    "jane@example.com",
			password: "password123",
			setupMock: func(m *MockStore) {
				m.users.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, errors.New("connection reset"))
			},
			wantInternal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			tt.setupMock(store)

			jwtService := auth.NewJWTService("test-secret", time.Hour)
			svc := NewAuthService(store, jwtService, hasher)
			result, err := svc.Login(context.Background(), tt.email, tt.password)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			case tt.wantInternal:
				require.Error(t, err)
				assert.False(t, errors.Is(err, apperrors.ErrUnauthenticated))
			default:
				require.NoError(t, err)
				assert.Equal(t, stored.ToProfile(), result.User)
				assert.WithinDuration(t, time.Now().Add(time.Hour), result.ExpiresAt, time.Minute)

				session, err := jwtService.ValidateToken(result.Token)
				require.NoError(t, err)
				assert.Equal(t, userID, session.UserID)
				assert.Equal(t, model.RoleAdmin, session.Role)
			}

			store.AssertExpectations(t)
		})
	}
}
