package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "ecomstore/internal/errors"
	"ecomstore/internal/middleware"
	"ecomstore/internal/model"
	"ecomstore/internal/service"
)

// AuthOptions configure the session cookie and uploaded file URLs.
type AuthOptions struct {
	CookieSecure  bool
	PublicBaseURL string
}

// AuthHandler handles authentication and self-service profile endpoints.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	opts        AuthOptions
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, userService service.UserService, opts AuthOptions) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, opts: opts}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// EditProfileRequest represents a partial profile update. Omitted fields are left unchanged.
type EditProfileRequest struct {
	UserID       string  `json:"userId"`
	Username     *string `json:"username"`
	ProfileImage *string `json:"profileImage"`
	Bio          *string `json:"bio" validate:"omitempty,max=200"`
	Profession   *string `json:"profession"`
}

// RegisterResponse represents a registration response.
type RegisterResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

// LoginResponse represents a login response. The token is also set as an HTTP-only cookie.
type LoginResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    model.Profile `json:"user"`
}

// ProfileResponse represents a profile edit response.
type ProfileResponse struct {
	Message string         `json:"message"`
	User    *model.Profile `json:"user"`
}

// UploadResponse represents a profile image upload response.
type UploadResponse struct {
	Message      string `json:"message"`
	ProfileImage string `json:"profileImage"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RegisterResponse{
		Message: "User registration successful",
		User:    user,
	})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(result.Token, result.ExpiresAt))
	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Logged in successfully",
		Token:   result.Token,
		User:    result.User,
	})
}

// Logout godoc
// @Summary Logout user
// @Description Clears the session cookie. Tokens are stateless and stay valid until they expire.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie := h.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	c.SetCookie(cookie)
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// UploadProfileImage godoc
// @Summary Upload a profile image
// @Description Stores the image and sets it as the user's profile image. Defaults to the caller when userId is omitted.
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Security CookieAuth
// @Param profileImage formData file true "Image file"
// @Param userId formData string false "Target user id (admins may target anyone)"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/upload-profile-image [post]
func (h *AuthHandler) UploadProfileImage(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}
	userID, err := targetUser(c.FormValue("userId"), caller)
	if err != nil {
		return err
	}

	file, err := c.FormFile("profileImage")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return apperrors.Detail(apperrors.ErrInvalidInput, "No file uploaded")
		}
		return apperrors.Detail(apperrors.ErrInvalidInput, "invalid multipart form")
	}

	url, err := h.userService.UploadProfileImage(c.Request().Context(), caller, userID, file, h.baseURL(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, UploadResponse{
		Message:      "Profile image uploaded successfully",
		ProfileImage: url,
	})
}

// EditProfile godoc
// @Summary Edit a user profile
// @Description Updates only the provided fields. Defaults to the caller when userId is omitted.
// @Tags auth
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body EditProfileRequest true "Profile fields"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/edit-profile [patch]
func (h *AuthHandler) EditProfile(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}

	var req EditProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	userID, err := targetUser(req.UserID, caller)
	if err != nil {
		return err
	}

	profile, err := h.userService.EditProfile(c.Request().Context(), caller, userID, model.ProfilePatch{
		Username:     req.Username,
		ProfileImage: req.ProfileImage,
		Bio:          req.Bio,
		Profession:   req.Profession,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		Message: "User profile updated successfully",
		User:    profile,
	})
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteNoneMode,
	}
}

// baseURL is the configured public URL, or the scheme and host the request came in on.
func (h *AuthHandler) baseURL(c echo.Context) string {
	if h.opts.PublicBaseURL != "" {
		return h.opts.PublicBaseURL
	}
	return c.Scheme() + "://" + c.Request().Host
}
