package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cartzilla/app/echo-server/router"
	"cartzilla/business/bargain"
	"cartzilla/business/category"
	"cartzilla/business/product"
	"cartzilla/business/review"
	userService "cartzilla/business/user"
	"cartzilla/internal/middleware"
	"cartzilla/internal/repository/events"
	"cartzilla/internal/repository/notification"
	psqlRepo "cartzilla/internal/repository/postgres"
	redisRepo "cartzilla/internal/repository/redis"
	"cartzilla/internal/rest"
	"cartzilla/pkg/config"
	"cartzilla/pkg/database"
	redisdb "cartzilla/pkg/database/redis"
	"cartzilla/pkg/logger"
	"cartzilla/pkg/metrics"
	"cartzilla/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Cartzilla", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	// Event producer. Kafka is optional; without it events are dropped.
	var publisher userService.EventPublisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer := events.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		publisher = producer
		logger.Info("Kafka producer enabled", "brokers", cfg.Kafka.Brokers)
	}

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	profileRepo := psqlRepo.NewProfileRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	reviewRepo := psqlRepo.NewReviewRepository(db)
	bargainRepo := psqlRepo.NewBargainRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)

	// Init service
	usrService := userService.NewUserService(userRepo, profileRepo, mailjetEmail, tokenRepo, publisher, validate, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	categoryService := category.NewCategoryService(categoryRepo)
	productService := product.NewProductService(productRepo, categoryRepo, profileRepo, reviewRepo, publisher)
	reviewService := review.NewReviewService(reviewRepo, productRepo, validate)
	bargainService := bargain.NewBargainService(bargainRepo, productRepo, profileRepo, publisher)

	// Init handler
	userHandler := rest.NewUserHandler(usrService)
	categoryHandler := rest.NewCategoryHandler(categoryService)
	productHandler := rest.NewProductHandler(productService)
	reviewHandler := rest.NewReviewHandler(reviewService)
	bargainHandler := rest.NewBargainHandler(bargainService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(tokenRepo)
	sellerOnly := middleware.SellerOnly()
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired)
	router.SetupCatalogRoutes(api, productHandler)
	router.SetupSellerRoutes(api, productHandler, bargainHandler, authRequired, sellerOnly)
	router.SetupReviewRoutes(api, reviewHandler, authRequired)
	router.SetupBargainRoutes(api, bargainHandler, authRequired)
	router.SetupCategoryRoutes(api, categoryHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
