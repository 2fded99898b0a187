package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cartzilla/business/product"
	"cartzilla/domain"
	"cartzilla/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	GetHomeProducts(ctx context.Context) ([]domain.Product, error)
	GetProducts(ctx context.Context, categoryID uint, search string) ([]domain.Product, error)
	GetProductDetail(ctx context.Context, id uint) (*product.ProductDetail, error)
	GetSellerProducts(ctx context.Context, actorID uint) ([]domain.Product, error)
	CreateProduct(ctx context.Context, actorID uint, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actorID uint, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actorID, id uint) error
}

type ProductHandler struct {
	productService ProductService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type ProductRequest struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description,omitempty"`
	Price        float64  `json:"price" validate:"required,gt=0"`
	Stock        int      `json:"stock" validate:"gte=0"`
	CategoryID   uint     `json:"category_id" validate:"required"`
	ImageURL     string   `json:"image_url,omitempty"`
	AllowBargain bool     `json:"allow_bargain"`
	MinPrice     *float64 `json:"min_price,omitempty" validate:"omitempty,gt=0"`
}

// productStatus maps product service errors onto HTTP status codes.
func productStatus(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "seller privileges"):
		return http.StatusForbidden
	case strings.Contains(msg, "your own products"):
		return http.StatusForbidden
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "required") || strings.Contains(msg, "must be") ||
		strings.Contains(msg, "cannot be") || strings.Contains(msg, "invalid"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetHomeProducts serves the landing page listing of newest products
func (h *ProductHandler) GetHomeProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetHomeProducts(ctx)
	if err != nil {
		logger.Error("Failed to get home products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get home products",
		"products": products,
	})
}

// GetProducts lists the catalog, filtered by the optional category and
// search query parameters
func (h *ProductHandler) GetProducts(c echo.Context) error {
	var categoryID uint
	if raw := c.QueryParam("category"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			logger.Error("Invalid category filter", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category filter"})
		}
		categoryID = uint(parsed)
	}
	search := c.QueryParam("search")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetProducts(ctx, categoryID, search)
	if err != nil {
		logger.Error("Failed to get products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get products",
		"products": products,
	})
}

// GetProductDetail serves a product with its reviews and average rating
func (h *ProductHandler) GetProductDetail(c echo.Context) error {
	productIDStr := c.Param("id")

	productID, err := strconv.ParseUint(productIDStr, 10, 32)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	detail, err := h.productService.GetProductDetail(ctx, uint(productID))
	if err != nil {
		logger.Error("Failed to get product detail", err)
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get product",
		"product": detail,
	})
}

// GetSellerProducts lists the logged-in seller's own products
func (h *ProductHandler) GetSellerProducts(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		logger.Error("Failed to get user_id from context")
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetSellerProducts(ctx, userID)
	if err != nil {
		logger.Error("Failed to get seller products", err)
		return c.JSON(productStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get seller products",
		"products": products,
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		logger.Error("Failed to get user_id from context")
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate product request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	newProduct, err := h.productService.CreateProduct(ctx, userID, &domain.Product{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Stock:        req.Stock,
		CategoryID:   req.CategoryID,
		ImageURL:     req.ImageURL,
		AllowBargain: req.AllowBargain,
		MinPrice:     req.MinPrice,
	})
	if err != nil {
		logger.Error("Failed to create product", err)
		return c.JSON(productStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "product successfully created",
		"product": newProduct,
	})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
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

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate product request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updatedProduct, err := h.productService.UpdateProduct(ctx, userID, &domain.Product{
		ID:           uint(productID),
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Stock:        req.Stock,
		CategoryID:   req.CategoryID,
		ImageURL:     req.ImageURL,
		AllowBargain: req.AllowBargain,
		MinPrice:     req.MinPrice,
	})
	if err != nil {
		logger.Error("Failed to update product", err)
		return c.JSON(productStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update product",
		"product": updatedProduct,
	})
}

// DeleteProduct removes a seller's product and everything attached to it
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
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

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.DeleteProduct(ctx, userID, uint(productID)); err != nil {
		logger.Error("Failed to delete product", err)
		return c.JSON(productStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "product successfully deleted",
		"product_id": productID,
	})
}
