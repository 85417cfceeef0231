package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ecomstore/internal/model"
	"ecomstore/internal/service"
)

// ReviewHandler handles review endpoints.
type ReviewHandler struct {
	svc service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// PostReviewRequest represents a review submission. Presence and range are checked by the service.
type PostReviewRequest struct {
	Comment   string `json:"comment"`
	Rating    int    `json:"rating"`
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

// ProductReviewsResponse carries every review of the product after a write.
type ProductReviewsResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Reviews []model.ProductReview `json:"reviews"`
}

// UserReviewsResponse carries a user's review history.
type UserReviewsResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Reviews []model.UserReview `json:"reviews"`
}

// TotalReviewsResponse carries the review count.
type TotalReviewsResponse struct {
	Message      string `json:"message"`
	TotalReviews int64  `json:"totalReviews"`
}

// PostReview godoc
// @Summary Create or replace a review
// @Description One review per user and product; a second submission replaces the first. The product's average rating is recomputed.
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body PostReviewRequest true "Review"
// @Success 201 {object} ProductReviewsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reviews/post-reviews [post]
func (h *ReviewHandler) PostReview(c echo.Context) error {
	var req PostReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	reviews, err := h.svc.UpsertReview(c.Request().Context(), service.ReviewInput{
		Comment:   req.Comment,
		Rating:    req.Rating,
		UserID:    req.UserID,
		ProductID: req.ProductID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, ProductReviewsResponse{
		Success: true,
		Message: "Review created or updated successfully",
		Reviews: reviews,
	})
}

// TotalReviews godoc
// @Summary Count all reviews
// @Tags reviews
// @Produce json
// @Success 200 {object} TotalReviewsResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reviews/total-reviews [get]
func (h *ReviewHandler) TotalReviews(c echo.Context) error {
	total, err := h.svc.CountReviews(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TotalReviewsResponse{Message: "Total reviews", TotalReviews: total})
}

// UserReviews godoc
// @Summary List a user's reviews
// @Description Newest first.
// @Tags reviews
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} UserReviewsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reviews/{userId} [get]
func (h *ReviewHandler) UserReviews(c echo.Context) error {
	reviews, err := h.svc.ListByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UserReviewsResponse{
		Success: true,
		Message: "Reviews fetched successfully",
		Reviews: reviews,
	})
}
