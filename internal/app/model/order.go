package model

import (
	"time"

	"gorm.io/gorm"
)

type PaymentStatus string   // payment state of an order
type DeliveryStatus string  // delivery state of an order

const (
	PaymentStatusCash PaymentStatus = "Cash" // pay on delivery
	PaymentStatusPaid PaymentStatus = "Paid" // settled via gateway or on delivery

	DeliveryStatusProcessing DeliveryStatus = "processing"
	DeliveryStatusDelivered  DeliveryStatus = "Delivered"
	DeliveryStatusCancelled  DeliveryStatus = "Cancelled"
)

// Order is an immutable snapshot of a checkout: recipient identity and
// totals are copied from the user and cart at materialization time and
// never re-derived from live catalog data.
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	OrderCode      string         `gorm:"uniqueIndex;not null" json:"order_code"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Name           string         `gorm:"not null" json:"name"`
	Email          string         `gorm:"not null" json:"email"`
	Phone          string         `gorm:"not null" json:"phone"`
	Address        string         `gorm:"not null" json:"address"`
	TotalMoney     float64        `gorm:"not null" json:"total_money"`
	PaymentStatus  PaymentStatus  `gorm:"type:varchar(20)" json:"payment_status"`
	DeliveryStatus DeliveryStatus `gorm:"type:varchar(20);default:'processing'" json:"delivery_status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	User       User        `gorm:"foreignKey:UserID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one frozen cart line inside an order. Soft deletion
// keeps the row for audit while excluding it from totals; the stock it
// represented must be restored when the line is removed.
type OrderItem struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	OrderID    uint           `gorm:"not null;index" json:"order_id"`
	ProductID  uint           `gorm:"not null;index" json:"product_id"`
	Size       string         `gorm:"type:varchar(20);default:''" json:"size"`
	Color      string         `gorm:"type:varchar(20);default:''" json:"color"`
	Price      float64        `gorm:"not null" json:"price"`
	Quantity   int            `gorm:"not null" json:"quantity"`
	TotalMoney float64        `gorm:"not null" json:"total_money"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
