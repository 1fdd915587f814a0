// internal/models/order.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is a pending product and quantity held for a user until an
// order is placed.
type CartItem struct {
	BaseModel
	UserID    uuid.UUID `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_product"`
	ProductID uuid.UUID `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`

	TotalPrice decimal.Decimal `json:"total_price" gorm:"-"`

	User    User    `json:"-" gorm:"foreignKey:UserID"`
	Product Product `json:"product" gorm:"foreignKey:ProductID"`
}

func (c *CartItem) LineTotal() decimal.Decimal {
	return LineTotal(c.Quantity, c.Product.Price)
}

func (c *CartItem) AfterFind(tx *gorm.DB) error {
	c.TotalPrice = c.LineTotal()
	return nil
}

type Order struct {
	BaseModel
	UserID           uuid.UUID       `json:"-" gorm:"type:uuid;not null;index"`
	Status           OrderStatus     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	TotalAmount      decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	ShippingAddress  string          `json:"shipping_address" gorm:"type:text"`
	PaymentReference string          `json:"-" gorm:"size:255"`

	User  User        `json:"user" gorm:"foreignKey:UserID"`
	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

// OrderItem is a snapshot of a product and its price at the time the order
// was placed.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID       `json:"-" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `json:"-" gorm:"type:uuid;not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`

	TotalPrice decimal.Decimal `json:"total_price" gorm:"-"`

	Product Product `json:"product" gorm:"foreignKey:ProductID"`
}

func (i *OrderItem) LineTotal() decimal.Decimal {
	return LineTotal(i.Quantity, i.Price)
}

func (i *OrderItem) AfterFind(tx *gorm.DB) error {
	i.TotalPrice = i.LineTotal()
	return nil
}
