package domain

import (
	"time"
)

// Review is append-only. A user may review the same product more than once;
// the average rating is computed on read.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	ProductID  uint      `gorm:"column:product_id;index;not null" json:"product_id"`
	Rating     int       `gorm:"column:rating;not null" json:"rating"`
	Comment    string    `gorm:"column:comment;type:text" json:"comment"`
	DatePosted time.Time `gorm:"column:date_posted;autoCreateTime" json:"date_posted"`
}

func (Review) TableName() string {
	return "reviews"
}
