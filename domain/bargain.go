package domain

import (
	"time"
)

const (
	BargainPending  = "pending"
	BargainAccepted = "accepted"
	BargainRejected = "rejected"
	BargainCounter  = "counter"
)

// BargainRequest is a customer-initiated price negotiation on one product.
// CounterPrice is set only while status is counter. Accepted and rejected
// are terminal.
type BargainRequest struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	ProductID    uint      `gorm:"column:product_id;index;not null" json:"product_id"`
	OfferedPrice float64   `gorm:"column:offered_price;not null" json:"offered_price"`
	CounterPrice *float64  `gorm:"column:counter_price" json:"counter_price,omitempty"`
	Status       string    `gorm:"column:status;default:pending" json:"status"`
	DateCreated  time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`
}

func (BargainRequest) TableName() string {
	return "bargain_requests"
}
