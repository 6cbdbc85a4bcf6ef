package model

import "time"

// PurchaseLog is an append-only record of one stock acquisition.
// TotalCost is frozen at quantity × buy_price when the entry is
// written; it is never recomputed.
type PurchaseLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	BuyPrice  float64   `gorm:"not null" json:"buy_price"`
	TotalCost float64   `gorm:"not null" json:"total_cost"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (PurchaseLog) TableName() string {
	return "purchase_logs"
}
