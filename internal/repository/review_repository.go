package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ecomstore/internal/model"
)

// RatingStats is the aggregate of a product's reviews.
type RatingStats struct {
	Average float64
	Count   int64
}

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Upsert(ctx context.Context, review *model.Review) error
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Review, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error)
	RatingStats(ctx context.Context, productID uuid.UUID) (RatingStats, error)
	Count(ctx context.Context) (int64, error)
	DeleteByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Upsert inserts the review or, when the (user, product) pair already has one, replaces its comment and rating.
func (r *reviewRepository) Upsert(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"comment", "rating", "updated_at"}),
		}).
		Create(review).Error
}

// FindByProduct returns the product's reviews, oldest first, with reviewers preloaded.
func (r *reviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "email", "profile_image")
		}).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByUser returns the user's reviews, newest first, with product names preloaded.
func (r *reviewRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// RatingStats computes the mean rating and review count for a product.
func (r *reviewRepository) RatingStats(ctx context.Context, productID uuid.UUID) (RatingStats, error) {
	var row struct {
		Average float64
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return RatingStats{}, err
	}
	return RatingStats{Average: row.Average, Count: row.Count}, nil
}

// Count returns the number of reviews in the store.
func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Review{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// DeleteByProduct removes every review of a product and reports how many were removed.
func (r *reviewRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.Review{})
	return res.RowsAffected, res.Error
}
