package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ecomstore/internal/cache"
	apperrors "ecomstore/internal/errors"
	"ecomstore/internal/metrics"
	"ecomstore/internal/model"
	"ecomstore/internal/repository"
)

const (
	// DefaultPage and DefaultLimit apply when a listing omits paging.
	DefaultPage  = 1
	DefaultLimit = 16

	productCacheTTL = 5 * time.Minute
	allFilter       = "all"
)

// ListParams are the raw catalog listing parameters as received.
type ListParams struct {
	Category string
	Color    string
	Search   string
	Page     string
	Limit    string
}

// ProductService exposes catalog operations.
type ProductService interface {
	Create(ctx context.Context, product *model.Product, authorID uuid.UUID) (*model.Product, error)
	List(ctx context.Context, params ListParams) (*model.ProductPage, error)
	GetOne(ctx context.Context, id uuid.UUID) (*model.ProductDetail, error)
	Update(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Related(ctx context.Context, id uuid.UUID) ([]model.Product, error)
}

type productService struct {
	store repository.Store
	cache *cache.Client
}

// NewProductService builds a ProductService with store and cache.
func NewProductService(store repository.Store, cache *cache.Client) ProductService {
	return &productService{store: store, cache: cache}
}

func productCacheKey(id uuid.UUID) string {
	return "product:" + id.String()
}

// Create persists a new product and seeds its average rating from any reviews already on file.
func (s *productService) Create(ctx context.Context, product *model.Product, authorID uuid.UUID) (*model.Product, error) {
	if err := validateProduct(product.Name, product.Price.IsNegative()); err != nil {
		return nil, err
	}
	product.AuthorID = authorID

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Products().Create(ctx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		average, err := recomputeAverageRating(ctx, tx, product.ID)
		if err != nil {
			return err
		}
		product.AverageRating = average
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, params ListParams) (*model.ProductPage, error) {
	query, err := NormalizeListParams(params)
	if err != nil {
		return nil, err
	}

	products, total, err := s.store.Products().List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return &model.ProductPage{
		Products:     products,
		TotalPage:    int64(math.Ceil(float64(total) / float64(query.Limit))),
		TotalProduct: total,
	}, nil
}

// NormalizeListParams applies listing defaults: "all" or empty filters match anything, missing, zero or
// non-numeric paging falls back to the defaults, and negative paging is rejected.
func NormalizeListParams(params ListParams) (model.ProductQuery, error) {
	page, err := parsePaging("page", params.Page, DefaultPage)
	if err != nil {
		return model.ProductQuery{}, err
	}
	limit, err := parsePaging("limit", params.Limit, DefaultLimit)
	if err != nil {
		return model.ProductQuery{}, err
	}
	return model.ProductQuery{
		Category: normalizeFilter(params.Category),
		Color:    normalizeFilter(params.Color),
		Search:   strings.TrimSpace(params.Search),
		Page:     page,
		Limit:    limit,
	}, nil
}

func parsePaging(name, raw string, fallback int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n == 0 {
		return fallback, nil
	}
	if n < 0 {
		return 0, apperrors.Detail(apperrors.ErrInvalidInput, name+" must be at least 1")
	}
	return n, nil
}

func normalizeFilter(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, allFilter) {
		return ""
	}
	return raw
}

// GetOne returns a product with its reviews, served from cache when possible.
func (s *productService) GetOne(ctx context.Context, id uuid.UUID) (*model.ProductDetail, error) {
	key := productCacheKey(id)
	var cached model.ProductDetail
	if s.cache.GetJSON(ctx, key, &cached) {
		metrics.RecordCache("product", true)
		return &cached, nil
	}
	metrics.RecordCache("product", false)

	product, err := s.findProduct(ctx, s.store, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.store.Reviews().FindByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}

	detail := &model.ProductDetail{
		Product: *product,
		Reviews: make([]model.DetailedReview, 0, len(reviews)),
	}
	for i := range reviews {
		detail.Reviews = append(detail.Reviews, reviews[i].ToDetailedReview())
	}

	s.cache.SetJSON(ctx, key, detail, productCacheTTL)
	return detail, nil
}

// Update merges the provided fields into the product. The row is locked so a concurrent
// rating rollup is not overwritten.
func (s *productService) Update(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "name cannot be empty")
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "price cannot be negative")
	}

	var updated *model.Product
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		product, err := tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrProductNotFound
			}
			return fmt.Errorf("find product: %w", err)
		}

		patch.Apply(product)
		if err := tx.Products().Update(ctx, product); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Invalidate(ctx, productCacheKey(id))
	return updated, nil
}

// Delete removes the product together with all of its reviews.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Reviews().DeleteByProduct(ctx, id); err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		if err := tx.Products().Delete(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrProductNotFound
			}
			return fmt.Errorf("delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = s.cache.Invalidate(ctx, productCacheKey(id), reviewCountCacheKey)
	return nil
}

// Related returns products sharing the source's category or a word of its name.
func (s *productService) Related(ctx context.Context, id uuid.UUID) ([]model.Product, error) {
	product, err := s.findProduct(ctx, s.store, id)
	if err != nil {
		return nil, err
	}

	related, err := s.store.Products().FindRelated(ctx, product.ID, product.Category, relatedNameTerms(product.Name))
	if err != nil {
		return nil, fmt.Errorf("find related products: %w", err)
	}
	if related == nil {
		related = []model.Product{}
	}
	return related, nil
}

// relatedNameTerms splits a product name into distinct lower-cased words longer than one character.
func relatedNameTerms(name string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(name)) {
		if utf8.RuneCountInString(word) <= 1 {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		terms = append(terms, word)
	}
	return terms
}

func (s *productService) findProduct(ctx context.Context, store repository.Store, id uuid.UUID) (*model.Product, error) {
	product, err := store.Products().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

func validateProduct(name string, negativePrice bool) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.Detail(apperrors.ErrInvalidInput, "name is required")
	}
	if negativePrice {
		return apperrors.Detail(apperrors.ErrInvalidInput, "price cannot be negative")
	}
	return nil
}
