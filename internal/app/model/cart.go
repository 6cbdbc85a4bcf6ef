package model

import (
	"time"

	"gorm.io/gorm"
)

// CartItem is one (product, size, color) line in a user's cart. Price
// is frozen at add time and reconciled against the current discount on
// cart reads; TotalPrice is always Price × Quantity. The quantity on a
// line is backed by stock already reserved on its behalf.
type CartItem struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	ProductID  uint           `gorm:"not null;index" json:"product_id"`
	Size       string         `gorm:"type:varchar(20);default:''" json:"size"`
	Color      string         `gorm:"type:varchar(20);default:''" json:"color"`
	Price      float64        `gorm:"not null" json:"price"`
	Quantity   int            `gorm:"not null;default:1" json:"quantity"`
	TotalPrice float64        `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
