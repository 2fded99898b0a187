package domain

import (
	"time"
)

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
)

// User carries a single enumerated role. The role is fixed at registration
// and never switched afterwards.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"column:username;unique;not null" json:"username"`
	Email      string    `gorm:"column:email;unique;not null" json:"email"`
	Password   string    `gorm:"column:password;not null" json:"-"`
	Role       string    `gorm:"column:role;default:customer" json:"role"`
	IsAdmin    bool      `gorm:"column:is_admin;default:false" json:"is_admin"`
	IsVerified bool      `gorm:"column:is_verified;default:false" json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// RoleRecord is an append-only audit row written once at registration.
// Nothing reads it back.
type RoleRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	Role      string    `gorm:"column:role;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (RoleRecord) TableName() string {
	return "roles"
}

// Customer is the profile row for role=customer. Exactly one of
// Customer/Seller exists per user.
type Customer struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	Address string `gorm:"column:address" json:"address"`
}

func (Customer) TableName() string {
	return "customers"
}

// Seller is the profile row for role=seller.
type Seller struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	Details string `gorm:"column:details;type:text" json:"details"`
}

func (Seller) TableName() string {
	return "sellers"
}
