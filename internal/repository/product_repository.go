package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ecomstore/internal/model"
)

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, query model.ProductQuery) ([]model.Product, int64, error)
	FindRelated(ctx context.Context, exclude uuid.UUID, category string, nameTerms []string) ([]model.Product, error)
	UpdateAverageRating(ctx context.Context, id uuid.UUID, average float64) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

// Update updates an existing product.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

// FindByID finds a product by ID.
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate finds a product by ID with row-level lock for update.
func (r *productRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns one page of products matching query, newest first, with the total match count.
func (r *productRepository) List(ctx context.Context, query model.ProductQuery) ([]model.Product, int64, error) {
	var total int64
	if err := r.filtered(ctx, query).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, query.Limit)
	err := r.filtered(ctx, query).
		Preload("Author", func(db *gorm.DB) *gorm.DB { return db.Select("id", "email") }).
		Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) filtered(ctx context.Context, query model.ProductQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Product{})
	if query.Category != "" {
		db = db.Where("category = ?", query.Category)
	}
	if query.Color != "" {
		db = db.Where("color = ?", query.Color)
	}
	if query.Search != "" {
		pattern := containsPattern(query.Search)
		db = db.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?)",
			pattern, pattern, pattern)
	}
	return db
}

// FindRelated returns products other than exclude that share category or whose name contains any term.
func (r *productRepository) FindRelated(ctx context.Context, exclude uuid.UUID, category string, nameTerms []string) ([]model.Product, error) {
	conds := []string{"category = ?"}
	args := []interface{}{category}
	for _, term := range nameTerms {
		conds = append(conds, "LOWER(name) LIKE ?")
		args = append(args, containsPattern(term))
	}

	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("id <> ?", exclude).
		Where("("+strings.Join(conds, " OR ")+")", args...).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateAverageRating writes the rollup column only, skipping hooks and updated_at.
func (r *productRepository) UpdateAverageRating(ctx context.Context, id uuid.UUID, average float64) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("average_rating", average).Error
}

// Delete removes a product. It returns gorm.ErrRecordNotFound when nothing was deleted.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
