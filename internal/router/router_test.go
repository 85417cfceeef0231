package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomstore/internal/auth"
	"ecomstore/internal/config"
	"ecomstore/internal/handler"
	"ecomstore/internal/middleware"
	"ecomstore/internal/model"
	"ecomstore/internal/service"
)

// stubUsers answers ListUsers with an empty listing and nothing else.
type stubUsers struct {
	service.UserService
}

func (stubUsers) ListUsers(context.Context) ([]model.UserSummary, error) {
	return []model.UserSummary{}, nil
}

func newTestServer(t *testing.T) (*echo.Echo, *auth.JWTService) {
	t.Helper()
	tokens := auth.NewJWTService("router-test-secret", time.Hour)
	cfg := &config.Config{
		CORSOrigins: []string{"http://localhost:5173"},
		UploadDir:   t.TempDir(),
	}

	e := echo.New()
	Register(e, cfg, zerolog.Nop(), middleware.NewAuthMiddleware(tokens), Handlers{
		Auth:    handler.NewAuthHandler(nil, stubUsers{}, handler.AuthOptions{}),
		User:    handler.NewUserHandler(stubUsers{}),
		Product: handler.NewProductHandler(nil),
		Review:  handler.NewReviewHandler(nil),
	})
	return e, tokens
}

func TestRegister_Banner(t *testing.T) {
	e, _ := newTestServer(t)

	for path, want := range map[string]string{"/": "E-comm is running!!", "/healthz": "ok"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, want, rec.Body.String(), path)
	}
}

func TestRegister_AdminGate(t *testing.T) {
	e, tokens := newTestServer(t)

	userToken, err := tokens.GenerateToken(uuid.New(), model.RoleUser)
	require.NoError(t, err)
	adminToken, err := tokens.GenerateToken(uuid.New(), model.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{name: "list users without cookie", method: http.MethodGet, path: "/api/auth/users", wantStatus: http.StatusUnauthorized},
		{name: "list users with tampered cookie", method: http.MethodGet, path: "/api/auth/users", token: userToken + "x", wantStatus: http.StatusUnauthorized},
		{name: "list users as user", method: http.MethodGet, path: "/api/auth/users", token: userToken, wantStatus: http.StatusForbidden},
		{name: "list users as admin", method: http.MethodGet, path: "/api/auth/users", token: adminToken, wantStatus: http.StatusOK},
		{name: "create product without cookie", method: http.MethodPost, path: "/api/products/create-product", wantStatus: http.StatusUnauthorized},
		{name: "delete product as user", method: http.MethodDelete, path: "/api/products/" + uuid.NewString(), token: userToken, wantStatus: http.StatusForbidden},
		{name: "upload without cookie", method: http.MethodPost, path: "/api/auth/upload-profile-image", wantStatus: http.StatusUnauthorized},
		{name: "edit profile without cookie", method: http.MethodPatch, path: "/api/auth/edit-profile", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: tt.token})
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRegister_UnknownRoute(t *testing.T) {
	e, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegister_MetricsEndpoint(t *testing.T) {
	e, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
