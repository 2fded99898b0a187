package product

import (
	"context"
	"errors"
	"strconv"

	"cartzilla/domain"
	"cartzilla/internal/repository/events"
	"cartzilla/pkg/logger"
)

const homeProductCount = 6

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	FindFiltered(ctx context.Context, categoryID uint, search string) ([]domain.Product, error)
	FindLatest(ctx context.Context, limit int) ([]domain.Product, error)
	FindBySellerID(ctx context.Context, sellerID uint) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint) error
}

// CategoryRepository contract interface
type CategoryRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Category, error)
}

// SellerRepository contract interface
type SellerRepository interface {
	FindSellerByUserID(ctx context.Context, userID uint) (domain.Seller, error)
}

// ReviewRepository contract interface
type ReviewRepository interface {
	FindByProductID(ctx context.Context, productID uint) ([]domain.Review, error)
	AverageRating(ctx context.Context, productID uint) (float64, error)
}

// EventPublisher contract interface
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event map[string]interface{}) error
}

// ProductDetail is the detail-page aggregate: the product, its reviews and
// their mean rating (0 when there are none).
type ProductDetail struct {
	Product       domain.Product  `json:"product"`
	Reviews       []domain.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
}

type productService struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	sellerRepo   SellerRepository
	reviewRepo   ReviewRepository
	publisher    EventPublisher
}

func NewProductService(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	sellerRepo SellerRepository,
	reviewRepo ReviewRepository,
	publisher EventPublisher,
) *productService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		sellerRepo:   sellerRepo,
		reviewRepo:   reviewRepo,
		publisher:    publisher,
	}
}

func (s *productService) publish(ctx context.Context, productID uint, event map[string]interface{}) {
	if err := s.publisher.Publish(ctx, events.TopicProductEvents, strconv.FormatUint(uint64(productID), 10), event); err != nil {
		logger.Warn("Failed to publish product event", err)
	}
}

// GetHomeProducts returns the latest products for the landing page.
func (s *productService) GetHomeProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.productRepo.FindLatest(ctx, homeProductCount)
	if err != nil {
		logger.Error("Failed to find latest products", err)
		return nil, err
	}

	return products, nil
}

// GetProducts lists the catalog with the optional category and search
// filters ANDed together. Zero values mean no restriction.
func (s *productService) GetProducts(ctx context.Context, categoryID uint, search string) ([]domain.Product, error) {
	products, err := s.productRepo.FindFiltered(ctx, categoryID, search)
	if err != nil {
		logger.Error("Failed to find products", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductDetail(ctx context.Context, id uint) (*ProductDetail, error) {
	if id == 0 {
		logger.Error("Invalid product id")
		return nil, errors.New("invalid product id")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find product", err)
		return nil, err
	}

	reviews, err := s.reviewRepo.FindByProductID(ctx, id)
	if err != nil {
		logger.Error("Failed to find product reviews", err)
		return nil, err
	}

	avg, err := s.reviewRepo.AverageRating(ctx, id)
	if err != nil {
		logger.Error("Failed to compute average rating", err)
		return nil, err
	}

	return &ProductDetail{
		Product:       product,
		Reviews:       reviews,
		AverageRating: avg,
	}, nil
}

// GetSellerProducts lists the acting seller's own products.
func (s *productService) GetSellerProducts(ctx context.Context, actorID uint) ([]domain.Product, error) {
	seller, err := s.sellerRepo.FindSellerByUserID(ctx, actorID)
	if err != nil {
		return nil, errors.New("you do not have seller privileges")
	}

	return s.productRepo.FindBySellerID(ctx, seller.ID)
}

func (s *productService) validate(product *domain.Product) error {
	if product.Name == "" {
		return errors.New("product name is required")
	}
	if product.Price <= 0 {
		return errors.New("price must be greater than 0")
	}
	if product.Stock < 0 {
		return errors.New("stock cannot be negative")
	}
	if product.MinPrice != nil && *product.MinPrice <= 0 {
		return errors.New("minimum price must be greater than 0")
	}
	return nil
}

// CreateProduct creates a product owned by the acting seller.
func (s *productService) CreateProduct(ctx context.Context, actorID uint, product *domain.Product) (*domain.Product, error) {
	seller, err := s.sellerRepo.FindSellerByUserID(ctx, actorID)
	if err != nil {
		logger.Warn("Non-seller attempted to create product", actorID)
		return nil, errors.New("you do not have seller privileges")
	}

	if err := s.validate(product); err != nil {
		logger.Error("Invalid product data", err)
		return nil, err
	}

	if _, err := s.categoryRepo.FindByID(ctx, product.CategoryID); err != nil {
		logger.Error("Category not found for product", err)
		return nil, errors.New("category not found")
	}

	product.SellerID = seller.ID
	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("Failed to create product", err)
		return nil, err
	}

	s.publish(ctx, product.ID, map[string]interface{}{
		"type":       "product_created",
		"product_id": product.ID,
		"seller_id":  seller.ID,
		"name":       product.Name,
	})

	return product, nil
}

// UpdateProduct edits a product. Role is checked before ownership; a
// non-owner leaves the row untouched.
func (s *productService) UpdateProduct(ctx context.Context, actorID uint, product *domain.Product) (*domain.Product, error) {
	seller, err := s.sellerRepo.FindSellerByUserID(ctx, actorID)
	if err != nil {
		logger.Warn("Non-seller attempted to update product", actorID)
		return nil, errors.New("you do not have seller privileges")
	}

	existing, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		logger.Error("Product not found for update", err)
		return nil, err
	}

	if existing.SellerID != seller.ID {
		logger.Warn("Seller attempted to update another seller's product", actorID)
		return nil, errors.New("you can only edit your own products")
	}

	if err := s.validate(product); err != nil {
		logger.Error("Invalid product data", err)
		return nil, err
	}

	if _, err := s.categoryRepo.FindByID(ctx, product.CategoryID); err != nil {
		logger.Error("Category not found for product", err)
		return nil, errors.New("category not found")
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		logger.Error("Failed to update product", err)
		return nil, err
	}

	updated, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, updated.ID, map[string]interface{}{
		"type":       "product_updated",
		"product_id": updated.ID,
		"seller_id":  seller.ID,
		"name":       updated.Name,
	})

	return &updated, nil
}

// DeleteProduct removes a product the acting seller owns, cascading its
// reviews and bargain requests.
func (s *productService) DeleteProduct(ctx context.Context, actorID, id uint) error {
	seller, err := s.sellerRepo.FindSellerByUserID(ctx, actorID)
	if err != nil {
		logger.Warn("Non-seller attempted to delete product", actorID)
		return errors.New("you do not have seller privileges")
	}

	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Product not found for deletion", err)
		return err
	}

	if existing.SellerID != seller.ID {
		logger.Warn("Seller attempted to delete another seller's product", actorID)
		return errors.New("you can only delete your own products")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete product", err)
		return err
	}

	s.publish(ctx, id, map[string]interface{}{
		"type":       "product_deleted",
		"product_id": id,
		"seller_id":  seller.ID,
	})

	return nil
}
