package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a catalog entry.
type Product struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name          string          `json:"name" gorm:"size:255;not null;index"`
	Category      string          `json:"category" gorm:"size:100;index"`
	Description   string          `json:"description" gorm:"type:text"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Color         string          `json:"color,omitempty" gorm:"size:50;index"`
	Image         string          `json:"image" gorm:"size:512"`
	Rating        float64         `json:"rating" gorm:"not null;default:0"` // legacy, superseded by AverageRating
	AverageRating float64         `json:"averageRating" gorm:"not null;default:0"`
	AuthorID      uuid.UUID       `json:"authorId" gorm:"type:char(36);not null;index"`
	CreatedAt     time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// Relations
	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductPatch carries the fields of a partial product update; nil leaves a field unchanged.
type ProductPatch struct {
	Name        *string
	Category    *string
	Description *string
	Price       *decimal.Decimal
	Color       *string
	Image       *string
	Rating      *float64
}

// Apply merges the provided fields into p.
func (pp ProductPatch) Apply(p *Product) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Color != nil {
		p.Color = *pp.Color
	}
	if pp.Image != nil {
		p.Image = *pp.Image
	}
	if pp.Rating != nil {
		p.Rating = *pp.Rating
	}
}

// ProductQuery describes a catalog listing request after normalization.
type ProductQuery struct {
	Category string // empty means any
	Color    string // empty means any
	Search   string // case-insensitive substring over name, description and category
	Page     int
	Limit    int
}

// Offset returns the number of rows skipped for the page.
func (q ProductQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	Products     []Product `json:"products"`
	TotalPage    int64     `json:"totalPage"`
	TotalProduct int64     `json:"totalProduct"`
}
