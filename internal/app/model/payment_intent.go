package model

import "time"

type PaymentIntentStatus string

const (
	PaymentIntentPending   PaymentIntentStatus = "pending"
	PaymentIntentCompleted PaymentIntentStatus = "completed"
	PaymentIntentFailed    PaymentIntentStatus = "failed"
)

// PaymentIntent correlates a redirect-gateway transaction reference
// with the user who started it. The callback resolves the user through
// this row instead of parsing identity out of free-text order info, and
// the unique TxnRef plus the status check make replayed callbacks
// harmless.
type PaymentIntent struct {
	ID        uint                `gorm:"primarykey" json:"id"`
	TxnRef    string              `gorm:"uniqueIndex;not null" json:"txn_ref"`
	UserID    uint                `gorm:"not null;index" json:"user_id"`
	Amount    float64             `gorm:"not null" json:"amount"`
	Status    PaymentIntentStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	OrderID   *uint               `gorm:"index" json:"order_id,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PaymentIntent) TableName() string {
	return "payment_intents"
}
