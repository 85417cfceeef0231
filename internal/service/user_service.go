package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	apperrors "ecomstore/internal/errors"
	"ecomstore/internal/model"
	"ecomstore/internal/repository"
	"ecomstore/internal/storage"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// CanActOn reports whether the actor may change the given user's data.
func (a Actor) CanActOn(userID uuid.UUID) bool {
	return a.Role == model.RoleAdmin || a.UserID == userID
}

// ImageStore persists uploaded images under server-chosen names.
type ImageStore interface {
	SaveImage(fh *multipart.FileHeader) (string, error)
	Remove(name string) error
}

// CacheInvalidator drops cached entries by key.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// UserService exposes profile and administration operations on users.
type UserService interface {
	EditProfile(ctx context.Context, actor Actor, userID uuid.UUID, patch model.ProfilePatch) (*model.Profile, error)
	UploadProfileImage(ctx context.Context, actor Actor, userID uuid.UUID, file *multipart.FileHeader, baseURL string) (string, error)
	ListUsers(ctx context.Context) ([]model.UserSummary, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*model.UserSummary, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	store  repository.Store
	images ImageStore
	cache  CacheInvalidator
	log    zerolog.Logger
}

// NewUserService builds a UserService. cache may be nil.
func NewUserService(store repository.Store, images ImageStore, cache CacheInvalidator, log zerolog.Logger) UserService {
	return &userService{store: store, images: images, cache: cache, log: log}
}

func (s *userService) EditProfile(ctx context.Context, actor Actor, userID uuid.UUID, patch model.ProfilePatch) (*model.Profile, error) {
	if !actor.CanActOn(userID) {
		return nil, apperrors.ErrForbidden
	}
	if patch.Username != nil {
		trimmed := strings.TrimSpace(*patch.Username)
		if trimmed == "" {
			return nil, apperrors.Detail(apperrors.ErrInvalidInput, "username cannot be empty")
		}
		patch.Username = &trimmed
	}
	if patch.Bio != nil && utf8.RuneCountInString(*patch.Bio) > model.BioMaxLength {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput,
			fmt.Sprintf("bio must be at most %d characters", model.BioMaxLength))
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	patch.Apply(user)
	if err := s.store.Users().Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Detail(apperrors.ErrConflict, "username already in use")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if patch.Username != nil || patch.ProfileImage != nil {
		s.invalidateReviewedProducts(ctx, userID)
	}

	profile := user.ToProfile()
	return &profile, nil
}

func (s *userService) UploadProfileImage(ctx context.Context, actor Actor, userID uuid.UUID, file *multipart.FileHeader, baseURL string) (string, error) {
	if !actor.CanActOn(userID) {
		return "", apperrors.ErrForbidden
	}
	if file == nil {
		return "", apperrors.Detail(apperrors.ErrInvalidInput, "no file uploaded")
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return "", err
	}

	name, err := s.images.SaveImage(file)
	if err != nil {
		if errors.Is(err, storage.ErrNotImage) {
			return "", apperrors.Detail(apperrors.ErrInvalidInput, err.Error())
		}
		return "", fmt.Errorf("save image: %w", err)
	}

	// profileImage is user-editable, so only the stored name is trusted for cleanup.
	url := storage.PublicURL(baseURL, name)
	previous := user.ImageFile
	user.ProfileImage = &url
	user.ImageFile = name
	if err := s.store.Users().Update(ctx, user); err != nil {
		s.removeImage(name)
		return "", fmt.Errorf("update user: %w", err)
	}

	if previous != "" {
		s.removeImage(previous)
	}
	s.invalidateReviewedProducts(ctx, userID)
	return url, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	summaries := make([]model.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].ToSummary())
	}
	return summaries, nil
}

func (s *userService) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*model.UserSummary, error) {
	if !model.ValidRole(role) {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput,
			fmt.Sprintf("role must be %q or %q", model.RoleUser, model.RoleAdmin))
	}

	user, err := s.store.Users().UpdateRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	summary := user.ToSummary()
	return &summary, nil
}

// DeleteUser removes the account only; the user's reviews stay and render anonymously.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Users().Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.invalidateReviewedProducts(ctx, id)
	return nil
}

// invalidateReviewedProducts drops the cached detail of every product the user reviewed,
// since those pages embed the reviewer's name and image.
func (s *userService) invalidateReviewedProducts(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	reviews, err := s.store.Reviews().FindByUser(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to find reviewed products for cache invalidation")
		return
	}
	if len(reviews) == 0 {
		return
	}
	keys := make([]string, 0, len(reviews))
	for i := range reviews {
		keys = append(keys, productCacheKey(reviews[i].ProductID))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate product cache")
	}
}

func (s *userService) findUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) removeImage(name string) {
	if err := s.images.Remove(name); err != nil {
		s.log.Warn().Err(err).Str("image", name).Msg("failed to remove profile image")
	}
}
