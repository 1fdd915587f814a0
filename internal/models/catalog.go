// internal/models/catalog.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category names are unique among live rows; a deleted name can be reused.
type Category struct {
	BaseModel
	Name        string         `json:"name" gorm:"size:100;not null;uniqueIndex:idx_categories_live_name,where:deleted_at IS NULL"`
	Description string         `json:"description" gorm:"type:text"`
	Image       string         `json:"image" gorm:"size:500"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Products []Product `json:"-" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	BaseModel
	Name        string          `json:"name" gorm:"size:200;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0;check:stock >= 0"`
	Image       string          `json:"image" gorm:"size:500"`
	IsActive    bool            `json:"is_active" gorm:"not null;index"`
	CategoryID  uuid.UUID       `json:"-" gorm:"type:uuid;not null;index"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`

	// Computed, read-only
	AverageRating float64 `json:"average_rating" gorm:"-"`
	IsInStock     bool    `json:"is_in_stock" gorm:"-"`

	// Relationships
	Category Category `json:"category" gorm:"foreignKey:CategoryID"`
	Reviews  []Review `json:"-" gorm:"foreignKey:ProductID"`
}

func (p *Product) AfterFind(tx *gorm.DB) error {
	p.IsInStock = p.Stock > 0
	return nil
}
