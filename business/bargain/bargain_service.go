package bargain

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cartzilla/domain"
	"cartzilla/internal/repository/events"
	"cartzilla/pkg/logger"
	"cartzilla/pkg/metrics"
)

// BargainRepository contract interface
type BargainRepository interface {
	Create(ctx context.Context, bargain *domain.BargainRequest) error
	FindByID(ctx context.Context, id uint) (domain.BargainRequest, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.BargainRequest, error)
	FindBySellerID(ctx context.Context, sellerID uint) ([]domain.BargainRequest, error)
	UpdateStatus(ctx context.Context, id uint, status string, counterPrice *float64) error
}

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

// SellerRepository contract interface
type SellerRepository interface {
	FindSellerByUserID(ctx context.Context, userID uint) (domain.Seller, error)
}

// EventPublisher contract interface
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event map[string]interface{}) error
}

type bargainService struct {
	bargainRepo BargainRepository
	productRepo ProductRepository
	sellerRepo  SellerRepository
	publisher   EventPublisher
}

func NewBargainService(
	bargainRepo BargainRepository,
	productRepo ProductRepository,
	sellerRepo SellerRepository,
	publisher EventPublisher,
) *bargainService {
	return &bargainService{
		bargainRepo: bargainRepo,
		productRepo: productRepo,
		sellerRepo:  sellerRepo,
		publisher:   publisher,
	}
}

func (s *bargainService) publish(ctx context.Context, bargainID uint, event map[string]interface{}) {
	if err := s.publisher.Publish(ctx, events.TopicBargainEvents, strconv.FormatUint(uint64(bargainID), 10), event); err != nil {
		logger.Warn("Failed to publish bargain event", err)
	}
}

// CreateBargain opens a negotiation on a product. The product must allow
// bargaining and the offer must clear the floor price when one is set;
// otherwise no row is created.
func (s *bargainService) CreateBargain(ctx context.Context, userID, productID uint, offeredPrice float64) (domain.BargainRequest, error) {
	if offeredPrice <= 0 {
		logger.Error("Invalid bargain data: offered price must be greater than 0")
		return domain.BargainRequest{}, errors.New("offered price must be greater than 0")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		logger.Error("Failed to find product for bargain", err)
		return domain.BargainRequest{}, err
	}

	if !product.AllowBargain {
		logger.Warn("Bargain attempted on non-bargainable product", product.ID)
		return domain.BargainRequest{}, errors.New("this product does not allow bargaining")
	}

	if product.MinPrice != nil && offeredPrice < *product.MinPrice {
		return domain.BargainRequest{}, fmt.Errorf("your offer must be at least $%.2f", *product.MinPrice)
	}

	bargain := domain.BargainRequest{
		UserID:       userID,
		ProductID:    productID,
		OfferedPrice: offeredPrice,
		Status:       domain.BargainPending,
	}

	if err := s.bargainRepo.Create(ctx, &bargain); err != nil {
		logger.Error("Failed to create bargain request", err)
		return domain.BargainRequest{}, err
	}

	metrics.BargainTransitions.WithLabelValues("create").Inc()
	s.publish(ctx, bargain.ID, map[string]interface{}{
		"type":          "bargain_created",
		"bargain_id":    bargain.ID,
		"product_id":    productID,
		"user_id":       userID,
		"offered_price": offeredPrice,
	})

	return bargain, nil
}

// SellerRespond applies the seller side of the state machine: accept, reject
// or counter on a pending bargain. Only the owning seller may act, and
// terminal bargains stay terminal.
func (s *bargainService) SellerRespond(ctx context.Context, actorID, bargainID uint, action string, counterPrice *float64) (domain.BargainRequest, error) {
	seller, err := s.sellerRepo.FindSellerByUserID(ctx, actorID)
	if err != nil {
		logger.Warn("Non-seller attempted to handle bargain", actorID)
		return domain.BargainRequest{}, errors.New("you do not have seller privileges")
	}

	bargain, err := s.bargainRepo.FindByID(ctx, bargainID)
	if err != nil {
		logger.Error("Failed to find bargain request", err)
		return domain.BargainRequest{}, err
	}

	product, err := s.productRepo.FindByID(ctx, bargain.ProductID)
	if err != nil {
		logger.Error("Failed to find product for bargain", err)
		return domain.BargainRequest{}, err
	}

	if product.SellerID != seller.ID {
		logger.Warn("Seller attempted to handle another seller's bargain", actorID)
		return domain.BargainRequest{}, errors.New("you can only handle bargains for your own products")
	}

	if bargain.Status != domain.BargainPending {
		return domain.BargainRequest{}, errors.New("bargain request is no longer pending")
	}

	switch action {
	case "accept":
		if err := s.bargainRepo.UpdateStatus(ctx, bargain.ID, domain.BargainAccepted, nil); err != nil {
			return domain.BargainRequest{}, err
		}
		bargain.Status = domain.BargainAccepted

	case "reject":
		if err := s.bargainRepo.UpdateStatus(ctx, bargain.ID, domain.BargainRejected, nil); err != nil {
			return domain.BargainRequest{}, err
		}
		bargain.Status = domain.BargainRejected

	case "counter":
		if counterPrice == nil || *counterPrice <= 0 {
			return domain.BargainRequest{}, errors.New("invalid counter offer")
		}
		if err := s.bargainRepo.UpdateStatus(ctx, bargain.ID, domain.BargainCounter, counterPrice); err != nil {
			return domain.BargainRequest{}, err
		}
		bargain.Status = domain.BargainCounter
		bargain.CounterPrice = counterPrice

	default:
		return domain.BargainRequest{}, errors.New("invalid action")
	}

	metrics.BargainTransitions.WithLabelValues(action).Inc()
	s.publish(ctx, bargain.ID, map[string]interface{}{
		"type":       "bargain_" + bargain.Status,
		"bargain_id": bargain.ID,
		"product_id": bargain.ProductID,
		"actor_id":   actorID,
	})

	return bargain, nil
}

// CustomerRespond lets the original initiator accept or reject a counter
// offer. No further counters are modeled.
func (s *bargainService) CustomerRespond(ctx context.Context, actorID, bargainID uint, action string) (domain.BargainRequest, error) {
	bargain, err := s.bargainRepo.FindByID(ctx, bargainID)
	if err != nil {
		logger.Error("Failed to find bargain request", err)
		return domain.BargainRequest{}, err
	}

	if bargain.UserID != actorID {
		logger.Warn("User attempted to respond to another user's bargain", actorID)
		return domain.BargainRequest{}, errors.New("you can only respond to your own bargain requests")
	}

	if bargain.Status != domain.BargainCounter {
		return domain.BargainRequest{}, errors.New("no counter offer to respond to")
	}

	var status string
	switch action {
	case "accept":
		status = domain.BargainAccepted
	case "reject":
		status = domain.BargainRejected
	default:
		return domain.BargainRequest{}, errors.New("invalid action")
	}

	if err := s.bargainRepo.UpdateStatus(ctx, bargain.ID, status, nil); err != nil {
		return domain.BargainRequest{}, err
	}
	bargain.Status = status

	metrics.BargainTransitions.WithLabelValues(action).Inc()
	s.publish(ctx, bargain.ID, map[string]interface{}{
		"type":       "bargain_" + status,
		"bargain_id": bargain.ID,
		"product_id": bargain.ProductID,
		"actor_id":   actorID,
	})

	return bargain, nil
}

// GetSellerBargains lists every bargain aimed at the acting seller's products.
func (s *bargainService) GetSellerBargains(ctx context.Context, actorID uint) ([]domain.BargainRequest, error) {
	seller, err := s.sellerRepo.FindSellerByUserID(ctx, actorID)
	if err != nil {
		return nil, errors.New("you do not have seller privileges")
	}

	return s.bargainRepo.FindBySellerID(ctx, seller.ID)
}

// GetUserBargains lists the bargains the acting user initiated.
func (s *bargainService) GetUserBargains(ctx context.Context, userID uint) ([]domain.BargainRequest, error) {
	return s.bargainRepo.FindByUserID(ctx, userID)
}
