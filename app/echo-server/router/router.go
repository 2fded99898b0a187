package router

import (
	"cartzilla/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.GET("/email-verification/:code", handler.VerifyEmail)
	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.POST("/logout", handler.Logout, authRequired)
	users.GET("/profile", handler.GetProfile, authRequired)
	users.PUT("/profile", handler.UpdateProfile, authRequired)
}

func SetupCatalogRoutes(api *echo.Group, handler *rest.ProductHandler) {
	api.GET("/home", handler.GetHomeProducts)

	products := api.Group("/products")
	products.GET("", handler.GetProducts)
	products.GET("/:id", handler.GetProductDetail)
}

func SetupSellerRoutes(api *echo.Group, productHandler *rest.ProductHandler, bargainHandler *rest.BargainHandler, authRequired echo.MiddlewareFunc, sellerOnly echo.MiddlewareFunc) {
	seller := api.Group("/seller", authRequired, sellerOnly)

	seller.GET("/products", productHandler.GetSellerProducts)
	seller.POST("/products", productHandler.CreateProduct)
	seller.PUT("/products/:id", productHandler.UpdateProduct)
	seller.DELETE("/products/:id", productHandler.DeleteProduct)

	seller.GET("/bargains", bargainHandler.GetSellerBargains)
	seller.POST("/bargains/:id/handle", bargainHandler.HandleBargain)
}

func SetupReviewRoutes(api *echo.Group, handler *rest.ReviewHandler, authRequired echo.MiddlewareFunc) {
	api.GET("/products/:id/reviews", handler.GetProductReviews)
	api.POST("/products/:id/reviews", handler.CreateReview, authRequired)
}

func SetupBargainRoutes(api *echo.Group, handler *rest.BargainHandler, authRequired echo.MiddlewareFunc) {
	api.POST("/products/:id/bargains", handler.CreateBargain, authRequired)

	my := api.Group("/my", authRequired)
	my.GET("/bargains", handler.GetMyBargains)
	my.POST("/bargains/:id/respond", handler.RespondBargain)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	categories := api.Group("/categories")

	categories.GET("", handler.GetAllCategories)
	categories.GET("/:id", handler.GetCategoryByID)
	categories.POST("", handler.CreateCategory, authRequired, adminOnly)
	categories.PUT("/:id", handler.UpdateCategory, authRequired, adminOnly)
	categories.DELETE("/:id", handler.DeleteCategory, authRequired, adminOnly)
}
