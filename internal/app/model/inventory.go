package model

import (
	"time"

	"gorm.io/gorm"
)

// InventoryRecord is the authoritative stock of one product variant in
// one warehouse. A warehouse-tracked product's aggregate stock must
// equal the sum of its non-deleted records after reconciliation.
type InventoryRecord struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	ProductID   uint           `gorm:"index:idx_inventory_key,unique;not null" json:"product_id"`
	WarehouseID uint           `gorm:"index:idx_inventory_key,unique;not null" json:"warehouse_id"`
	Size        string         `gorm:"index:idx_inventory_key,unique;type:varchar(20);default:''" json:"size"`
	Color       string         `gorm:"index:idx_inventory_key,unique;type:varchar(20);default:''" json:"color"`
	Quantity    int            `gorm:"default:0" json:"quantity"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Product   Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Warehouse Warehouse `gorm:"foreignKey:WarehouseID" json:"-"`
}

func (InventoryRecord) TableName() string {
	return "inventories"
}
