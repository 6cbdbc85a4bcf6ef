package model

import "time"

// ProductMaterial is one material/percentage entry of a product's
// composition. Entries are parsed from the request as an explicit list
// and validated; malformed entries are rejected, never defaulted.
type ProductMaterial struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ProductID  uint      `gorm:"index;not null" json:"product_id"`
	Material   string    `gorm:"type:varchar(30);not null" json:"material"`
	Percentage int       `gorm:"default:100" json:"percentage"`
	CreatedAt  time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductMaterial) TableName() string {
	return "product_materials"
}
