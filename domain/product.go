package domain

import (
	"time"
)

// Product is owned by exactly one seller and belongs to exactly one category.
// MinPrice is the optional bargaining floor; it only matters when
// AllowBargain is set.
type Product struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SellerID     uint      `gorm:"column:seller_id;index;not null" json:"seller_id"`
	CategoryID   uint      `gorm:"column:category_id;index;not null" json:"category_id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	Price        float64   `gorm:"column:price;not null" json:"price"`
	Stock        int       `gorm:"column:stock;default:0" json:"stock"`
	ImageURL     string    `gorm:"column:image_url" json:"image_url"`
	AllowBargain bool      `gorm:"column:allow_bargain;default:false" json:"allow_bargain"`
	MinPrice     *float64  `gorm:"column:min_price" json:"min_price,omitempty"`
	DateAdded    time.Time `gorm:"column:date_added;autoCreateTime" json:"date_added"`
}

func (Product) TableName() string {
	return "products"
}
