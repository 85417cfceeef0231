package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	session, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, "admin", session.Role)
}

func TestJWTService_DefaultExpiry(t *testing.T) {
	svc := NewJWTService("test-secret", 0)
	assert.Equal(t, DefaultTokenExpiry, svc.Expiry())
}

func TestJWTService_ValidateToken_Failures(t *testing.T) {
	userID := uuid.New()
	issuer := NewJWTService("test-secret", time.Minute)

	expired := NewJWTService("test-secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.GenerateToken(userID, "user")
	require.NoError(t, err)

	otherSecret, err := NewJWTService("other-secret", time.Minute).GenerateToken(userID, "user")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: userID.String()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: "not-a-uuid",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "garbage", token: "not-a-jwt", wantErr: ErrTokenInvalid},
		{name: "expired", token: expiredToken, wantErr: ErrTokenInvalid},
		{name: "wrong secret", token: otherSecret, wantErr: ErrTokenInvalid},
		{name: "unsigned", token: noneToken, wantErr: ErrTokenInvalid},
		{name: "subject is not a uuid", token: badSubject, wantErr: ErrMalformedClaims},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := issuer.ValidateToken(tt.token)
			assert.Nil(t, session)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
