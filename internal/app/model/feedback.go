package model

import (
	"time"

	"gorm.io/gorm"
)

// Feedback is a contact-form message from a customer.
type Feedback struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"index" json:"user_id"`
	FullName  string         `gorm:"not null" json:"full_name"`
	Email     string         `gorm:"not null" json:"email"`
	Phone     string         `json:"phone"`
	Subject   string         `json:"subject"`
	Note      string         `gorm:"type:text" json:"note"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
