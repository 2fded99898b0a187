package postgres

import (
	"context"
	"errors"
	"fmt"

	"cartzilla/domain"

	"gorm.io/gorm"
)

type BargainRepository struct {
	DB *gorm.DB
}

func NewBargainRepository(db *gorm.DB) *BargainRepository {
	return &BargainRepository{
		DB: db,
	}
}

func (r *BargainRepository) Create(ctx context.Context, bargain *domain.BargainRequest) error {
	if err := r.DB.WithContext(ctx).Create(bargain).Error; err != nil {
		return fmt.Errorf("failed to create bargain request: %w", err)
	}

	return nil
}

func (r *BargainRepository) FindByID(ctx context.Context, id uint) (domain.BargainRequest, error) {
	var bargain domain.BargainRequest

	err := r.DB.WithContext(ctx).First(&bargain, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BargainRequest{}, errors.New("bargain request not found")
		}
		return domain.BargainRequest{}, fmt.Errorf("failed to find bargain request: %w", err)
	}

	return bargain, nil
}

func (r *BargainRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.BargainRequest, error) {
	var bargains []domain.BargainRequest

	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("date_created DESC").Find(&bargains).Error; err != nil {
		return nil, fmt.Errorf("failed to find bargain requests: %w", err)
	}

	return bargains, nil
}

// FindBySellerID lists every bargain aimed at one of the seller's products.
func (r *BargainRepository) FindBySellerID(ctx context.Context, sellerID uint) ([]domain.BargainRequest, error) {
	var bargains []domain.BargainRequest

	err := r.DB.WithContext(ctx).
		Joins("JOIN products ON products.id = bargain_requests.product_id").
		Where("products.seller_id = ?", sellerID).
		Order("bargain_requests.date_created DESC").
		Find(&bargains).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find seller bargain requests: %w", err)
	}

	return bargains, nil
}

// UpdateStatus applies one state transition. CounterPrice is written only
// when provided, so accept/reject never clobber an existing counter price.
func (r *BargainRepository) UpdateStatus(ctx context.Context, id uint, status string, counterPrice *float64) error {
	updateData := map[string]interface{}{
		"status": status,
	}
	if counterPrice != nil {
		updateData["counter_price"] = *counterPrice
	}

	result := r.DB.WithContext(ctx).Model(&domain.BargainRequest{}).Where("id = ?", id).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update bargain request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("bargain request not found")
	}

	return nil
}
