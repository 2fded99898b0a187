package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cartzilla/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.DB.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (domain.Product, error) {
	var product domain.Product

	err := r.DB.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, errors.New("product not found")
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

// FindFiltered composes the optional category and name-substring filters with
// AND semantics. Zero/empty values mean no restriction. The substring match
// is case-insensitive on both postgres and sqlite.
func (r *ProductRepository) FindFiltered(ctx context.Context, categoryID uint, search string) ([]domain.Product, error) {
	query := r.DB.WithContext(ctx).Model(&domain.Product{})

	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var products []domain.Product
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) FindLatest(ctx context.Context, limit int) ([]domain.Product, error) {
	var products []domain.Product

	if err := r.DB.WithContext(ctx).Order("id DESC").Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find latest products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) FindBySellerID(ctx context.Context, sellerID uint) ([]domain.Product, error) {
	var products []domain.Product

	if err := r.DB.WithContext(ctx).Where("seller_id = ?", sellerID).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find seller products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	updateData := map[string]interface{}{
		"name":          product.Name,
		"description":   product.Description,
		"price":         product.Price,
		"stock":         product.Stock,
		"image_url":     product.ImageURL,
		"category_id":   product.CategoryID,
		"allow_bargain": product.AllowBargain,
		"min_price":     product.MinPrice,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", product.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("product not found or already deleted")
	}

	return nil
}

// Delete removes the product together with its reviews and bargain requests
// in one transaction, matching the cascade the schema promises.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete product reviews: %w", err)
		}

		if err := tx.Where("product_id = ?", id).Delete(&domain.BargainRequest{}).Error; err != nil {
			return fmt.Errorf("failed to delete product bargains: %w", err)
		}

		result := tx.Delete(&domain.Product{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete product: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.New("product not found or already deleted")
		}

		return nil
	})
}
