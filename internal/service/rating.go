package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ecomstore/internal/metrics"
	"ecomstore/internal/repository"
)

// recomputeAverageRating stores the mean of the product's review ratings on the product.
// Callers run it inside the transaction that changed the reviews.
func recomputeAverageRating(ctx context.Context, tx repository.Store, productID uuid.UUID) (float64, error) {
	stats, err := tx.Reviews().RatingStats(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("rating stats: %w", err)
	}
	if err := tx.Products().UpdateAverageRating(ctx, productID, stats.Average); err != nil {
		return 0, fmt.Errorf("update average rating: %w", err)
	}
	metrics.RecordRatingRollup()
	return stats.Average, nil
}
