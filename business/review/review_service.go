package review

import (
	"context"
	"errors"

	"cartzilla/domain"
	"cartzilla/pkg/logger"
	"cartzilla/pkg/metrics"

	"github.com/go-playground/validator/v10"
)

// ReviewRepository contract interface
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByProductID(ctx context.Context, productID uint) ([]domain.Review, error)
	AverageRating(ctx context.Context, productID uint) (float64, error)
}

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

type reviewService struct {
	reviewRepo  ReviewRepository
	productRepo ProductRepository
	validate    *validator.Validate
}

func NewReviewService(reviewRepo ReviewRepository, productRepo ProductRepository, validate *validator.Validate) *reviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		validate:    validate,
	}
}

// CreateReview appends a review to a product. Ratings live on a 1..5 scale;
// there is no per-user uniqueness and reviews are never edited or removed.
func (s *reviewService) CreateReview(ctx context.Context, userID, productID uint, rating int, comment string) (domain.Review, error) {
	if err := s.validate.Var(rating, "gte=1,lte=5"); err != nil {
		logger.Error("Invalid review rating", err)
		return domain.Review{}, errors.New("rating must be between 1 and 5")
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		logger.Error("Product not found for review", err)
		return domain.Review{}, err
	}

	review := domain.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}

	if err := s.reviewRepo.Create(ctx, &review); err != nil {
		logger.Error("Failed to create review", err)
		return domain.Review{}, err
	}

	metrics.ReviewsSubmitted.Inc()

	return review, nil
}

func (s *reviewService) GetProductReviews(ctx context.Context, productID uint) ([]domain.Review, float64, error) {
	reviews, err := s.reviewRepo.FindByProductID(ctx, productID)
	if err != nil {
		logger.Error("Failed to find reviews", err)
		return nil, 0, err
	}

	avg, err := s.reviewRepo.AverageRating(ctx, productID)
	if err != nil {
		logger.Error("Failed to compute average rating", err)
		return nil, 0, err
	}

	return reviews, avg, nil
}
