package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ecomstore/internal/cache"
	apperrors "ecomstore/internal/errors"
	"ecomstore/internal/metrics"
	"ecomstore/internal/model"
	"ecomstore/internal/repository"
)

const (
	reviewCountCacheKey = "reviews:count"
	reviewCountCacheTTL = 30 * time.Second
)

// ReviewInput is a review submission as received.
type ReviewInput struct {
	Comment   string
	Rating    int
	UserID    string
	ProductID string
}

// ReviewService exposes review operations.
type ReviewService interface {
	UpsertReview(ctx context.Context, input ReviewInput) ([]model.ProductReview, error)
	CountReviews(ctx context.Context) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]model.UserReview, error)
}

type reviewService struct {
	store repository.Store
	cache *cache.Client
}

// NewReviewService builds a ReviewService with store and cache.
func NewReviewService(store repository.Store, cache *cache.Client) ReviewService {
	return &reviewService{store: store, cache: cache}
}

// UpsertReview creates or replaces the user's review of a product, refreshes the product's
// average rating in the same transaction and returns all of the product's reviews.
func (s *reviewService) UpsertReview(ctx context.Context, input ReviewInput) ([]model.ProductReview, error) {
	review, err := input.toReview()
	if err != nil {
		metrics.RecordReviewWrite("invalid")
		return nil, err
	}

	var reviews []model.Review
	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		// Locking the product serializes rollups for it.
		if _, err := tx.Products().FindByIDForUpdate(ctx, review.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrProductNotFound
			}
			return fmt.Errorf("find product: %w", err)
		}

		if err := tx.Reviews().Upsert(ctx, review); err != nil {
			return fmt.Errorf("upsert review: %w", err)
		}
		if _, err := recomputeAverageRating(ctx, tx, review.ProductID); err != nil {
			return err
		}

		found, err := tx.Reviews().FindByProduct(ctx, review.ProductID)
		if err != nil {
			return fmt.Errorf("find reviews: %w", err)
		}
		reviews = found
		return nil
	})
	if err != nil {
		metrics.RecordReviewWrite("failed")
		return nil, err
	}
	metrics.RecordReviewWrite("success")

	_ = s.cache.Invalidate(ctx, productCacheKey(review.ProductID), reviewCountCacheKey)

	projected := make([]model.ProductReview, 0, len(reviews))
	for i := range reviews {
		projected = append(projected, reviews[i].ToProductReview())
	}
	return projected, nil
}

func (in ReviewInput) toReview() (*model.Review, error) {
	comment := strings.TrimSpace(in.Comment)
	if comment == "" || in.Rating == 0 || strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.ProductID) == "" {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "comment, rating, userId and productId are required")
	}
	if !model.ValidRating(in.Rating) {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput,
			fmt.Sprintf("rating must be between %d and %d", model.MinRating, model.MaxRating))
	}
	userID, err := uuid.Parse(strings.TrimSpace(in.UserID))
	if err != nil {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "invalid userId")
	}
	productID, err := uuid.Parse(strings.TrimSpace(in.ProductID))
	if err != nil {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "invalid productId")
	}
	return &model.Review{
		Comment:   comment,
		Rating:    in.Rating,
		UserID:    userID,
		ProductID: productID,
	}, nil
}

// CountReviews returns the number of reviews in the store.
func (s *reviewService) CountReviews(ctx context.Context) (int64, error) {
	var cached int64
	if s.cache.GetJSON(ctx, reviewCountCacheKey, &cached) {
		metrics.RecordCache("review_count", true)
		return cached, nil
	}
	metrics.RecordCache("review_count", false)

	total, err := s.store.Reviews().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	s.cache.SetJSON(ctx, reviewCountCacheKey, total, reviewCountCacheTTL)
	return total, nil
}

// ListByUser returns the user's reviews, newest first.
func (s *reviewService) ListByUser(ctx context.Context, userID string) ([]model.UserReview, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "userId is required")
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "invalid userId")
	}

	reviews, err := s.store.Reviews().FindByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	if len(reviews) == 0 {
		return nil, apperrors.ErrReviewsNotFound
	}

	projected := make([]model.UserReview, 0, len(reviews))
	for i := range reviews {
		projected = append(projected, reviews[i].ToUserReview())
	}
	return projected, nil
}
