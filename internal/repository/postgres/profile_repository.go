package postgres

import (
	"context"
	"errors"

	"cartzilla/domain"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{
		DB: db,
	}
}

func (r *ProfileRepository) FindCustomerByUserID(ctx context.Context, userID uint) (domain.Customer, error) {
	var customer domain.Customer

	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Customer{}, errors.New("customer profile not found")
		}
		return domain.Customer{}, err
	}

	return customer, nil
}

func (r *ProfileRepository) FindSellerByUserID(ctx context.Context, userID uint) (domain.Seller, error) {
	var seller domain.Seller

	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&seller).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Seller{}, errors.New("seller profile not found")
		}
		return domain.Seller{}, err
	}

	return seller, nil
}
