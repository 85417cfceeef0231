package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating and comment on a product. A user holds at most one review per product.
type Review struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Comment   string    `json:"comment" gorm:"type:text;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;uniqueIndex:idx_review_user_product,priority:1"`
	ProductID uuid.UUID `json:"productId" gorm:"type:char(36);not null;uniqueIndex:idx_review_user_product,priority:2;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ValidRating reports whether rating is within [MinRating, MaxRating].
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// Fallbacks used when a review's related record is gone.
const (
	AnonymousUserName   = "Anonymous"
	DefaultProfileImage = "default-avatar.png"
	UnknownProductName  = "Unknown"
)

// ProductReview is the projection of a review shown on a product after a review write.
type ProductReview struct {
	Comment      string    `json:"comment"`
	Rating       int       `json:"rating"`
	UserName     string    `json:"userName"`
	ProfileImage string    `json:"profileImage"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ToProductReview projects r, falling back when the reviewer is unknown.
func (r *Review) ToProductReview() ProductReview {
	pr := ProductReview{
		Comment:      r.Comment,
		Rating:       r.Rating,
		UserName:     AnonymousUserName,
		ProfileImage: DefaultProfileImage,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.User != nil {
		if r.User.Username != "" {
			pr.UserName = r.User.Username
		}
		if r.User.ProfileImage != nil && *r.User.ProfileImage != "" {
			pr.ProfileImage = *r.User.ProfileImage
		}
	}
	return pr
}

// UserReview is the projection of a review in a user's review history.
type UserReview struct {
	Comment     string    `json:"comment"`
	Rating      int       `json:"rating"`
	ProductName string    `json:"productName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToUserReview projects r, falling back when the product is unknown.
func (r *Review) ToUserReview() UserReview {
	ur := UserReview{
		Comment:     r.Comment,
		Rating:      r.Rating,
		ProductName: UnknownProductName,
		CreatedAt:   r.CreatedAt,
	}
	if r.Product != nil && r.Product.Name != "" {
		ur.ProductName = r.Product.Name
	}
	return ur
}

// Reviewer is the projection of a review author shown on the product page.
type Reviewer struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ProfileImage *string   `json:"profileImage"`
}

// DetailedReview is a review with its author projected, as shown on the product page.
type DetailedReview struct {
	ID        uuid.UUID `json:"id"`
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"`
	ProductID uuid.UUID `json:"productId"`
	User      *Reviewer `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToDetailedReview projects r with its author.
func (r *Review) ToDetailedReview() DetailedReview {
	dr := DetailedReview{
		ID:        r.ID,
		Comment:   r.Comment,
		Rating:    r.Rating,
		ProductID: r.ProductID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User != nil {
		dr.User = &Reviewer{
			ID:           r.User.ID,
			Username:     r.User.Username,
			Email:        r.User.Email,
			ProfileImage: r.User.ProfileImage,
		}
	}
	return dr
}

// ProductDetail is a product with all of its reviews.
type ProductDetail struct {
	Product Product          `json:"product"`
	Reviews []DetailedReview `json:"reviews"`
}
