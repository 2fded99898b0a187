package postgres

import (
	"context"
	"fmt"

	"cartzilla/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		DB: db,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if err := r.DB.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *ReviewRepository) FindByProductID(ctx context.Context, productID uint) ([]domain.Review, error) {
	var reviews []domain.Review

	if err := r.DB.WithContext(ctx).Where("product_id = ?", productID).Order("date_posted DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}

	return reviews, nil
}

// AverageRating returns the arithmetic mean over all reviews of the product,
// 0 when there are none.
func (r *ReviewRepository) AverageRating(ctx context.Context, productID uint) (float64, error) {
	var avg float64

	err := r.DB.WithContext(ctx).Model(&domain.Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute average rating: %w", err)
	}

	return avg, nil
}
