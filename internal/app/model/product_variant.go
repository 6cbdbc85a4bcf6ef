package model

import (
	"time"
)

// ProductVariant is one size/color combination with its own stock.
// When a product has any variants they are authoritative: the product's
// aggregate stock_quantity must equal the sum over its variants.
type ProductVariant struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ProductID     uint           `gorm:"index:idx_variant_key,unique;not null" json:"product_id"`
	Size          string         `gorm:"index:idx_variant_key,unique;type:varchar(20);default:''" json:"size"`
	Color         string         `gorm:"index:idx_variant_key,unique;type:varchar(20);default:''" json:"color"`
	StockQuantity int       `gorm:"default:0" json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}
