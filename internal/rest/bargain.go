package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cartzilla/domain"
	"cartzilla/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type BargainService interface {
	CreateBargain(ctx context.Context, userID, productID uint, offeredPrice float64) (domain.BargainRequest, error)
	SellerRespond(ctx context.Context, actorID, bargainID uint, action string, counterPrice *float64) (domain.BargainRequest, error)
	CustomerRespond(ctx context.Context, actorID, bargainID uint, action string) (domain.BargainRequest, error)
	GetSellerBargains(ctx context.Context, actorID uint) ([]domain.BargainRequest, error)
	GetUserBargains(ctx context.Context, userID uint) ([]domain.BargainRequest, error)
}

type BargainHandler struct {
	bargainService BargainService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewBargainHandler(bargainService BargainService) *BargainHandler {
	return &BargainHandler{
		bargainService: bargainService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type CreateBargainRequest struct {
	OfferedPrice float64 `json:"offered_price" validate:"required,gt=0"`
}

type SellerBargainActionRequest struct {
	Action       string   `json:"action" validate:"required,oneof=accept reject counter"`
	CounterPrice *float64 `json:"counter_price,omitempty" validate:"omitempty,gt=0"`
}

type CustomerBargainActionRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

// bargainStatus maps bargain service errors onto HTTP status codes.
func bargainStatus(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "seller privileges"):
		return http.StatusForbidden
	case strings.Contains(msg, "your own"):
		return http.StatusForbidden
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// CreateBargain opens a price negotiation on a product
func (h *BargainHandler) CreateBargain(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		logger.Error("Failed to get user_id from context")
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	productIDStr := c.Param("id")
	productID, err := strconv.ParseUint(productIDStr, 10, 32)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	var req CreateBargainRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate bargain request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	bargain, err := h.bargainService.CreateBargain(ctx, userID, uint(productID), req.OfferedPrice)
	if err != nil {
		logger.Error("Failed to create bargain request", err)
		return c.JSON(bargainStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(bargain))
}

// HandleBargain applies the seller's accept, reject or counter decision
func (h *BargainHandler) HandleBargain(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		logger.Error("Failed to get user_id from context")
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	bargainIDStr := c.Param("id")
	bargainID, err := strconv.ParseUint(bargainIDStr, 10, 32)
	if err != nil {
		logger.Error("Invalid bargain id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid bargain id"})
	}

	var req SellerBargainActionRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate bargain action", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	bargain, err := h.bargainService.SellerRespond(ctx, userID, uint(bargainID), req.Action, req.CounterPrice)
	if err != nil {
		logger.Error("Failed to handle bargain request", err)
		return c.JSON(bargainStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(bargain))
}

// RespondBargain lets the initiating customer answer a counter offer
func (h *BargainHandler) RespondBargain(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		logger.Error("Failed to get user_id from context")
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	bargainIDStr := c.Param("id")
	bargainID, err := strconv.ParseUint(bargainIDStr, 10, 32)
	if err != nil {
		logger.Error("Invalid bargain id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid bargain id"})
	}

	var req CustomerBargainActionRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate bargain response", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	bargain, err := h.bargainService.CustomerRespond(ctx, userID, uint(bargainID), req.Action)
	if err != nil {
		logger.Error("Failed to respond to bargain", err)
		return c.JSON(bargainStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(bargain))
}

// GetSellerBargains lists bargains aimed at the seller's products
func (h *BargainHandler) GetSellerBargains(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		logger.Error("Failed to get user_id from context")
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	bargains, err := h.bargainService.GetSellerBargains(ctx, userID)
	if err != nil {
		logger.Error("Failed to get seller bargains", err)
		return c.JSON(bargainStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(bargains))
}

// GetMyBargains lists the bargains the logged-in user started
func (h *BargainHandler) GetMyBargains(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		logger.Error("Failed to get user_id from context")
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	bargains, err := h.bargainService.GetUserBargains(ctx, userID)
	if err != nil {
		logger.Error("Failed to get user bargains", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(bargains))
}
