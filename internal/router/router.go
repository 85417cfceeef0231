package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"ecomstore/docs"
	"ecomstore/internal/config"
	"ecomstore/internal/handler"
	"ecomstore/internal/middleware"
)

// Handlers bundles the HTTP handlers the router mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Product *handler.ProductHandler
	Review  *handler.ReviewHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log zerolog.Logger,
	authMW *middleware.AuthMiddleware,
	h Handlers,
) {
	e.HTTPErrorHandler = middleware.NewErrorHandler(log).Handle
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(middleware.Metrics)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "E-comm is running!!")
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/uploads", cfg.UploadDir)

	api := e.Group("/api")

	// Auth and profile routes
	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/logout", h.Auth.Logout)
	authGroup.POST("/upload-profile-image", h.Auth.UploadProfileImage, authMW.Authenticate)
	authGroup.PATCH("/edit-profile", h.Auth.EditProfile, authMW.Authenticate)

	// User administration
	admin := authGroup.Group("/users", authMW.Authenticate, authMW.RequireAdmin)
	admin.GET("", h.User.ListUsers)
	admin.PUT("/:id", h.User.UpdateRole)
	admin.DELETE("/:id", h.User.DeleteUser)

	// Product routes
	products := api.Group("/products")
	products.GET("", h.Product.ListProducts)
	products.GET("/related/:id", h.Product.RelatedProducts)
	products.GET("/:id", h.Product.GetProduct)
	products.POST("/create-product", h.Product.CreateProduct, authMW.Authenticate, authMW.RequireAdmin)
	products.PATCH("/update-product/:id", h.Product.UpdateProduct, authMW.Authenticate, authMW.RequireAdmin)
	products.DELETE("/:id", h.Product.DeleteProduct, authMW.Authenticate, authMW.RequireAdmin)

	// Review routes
	reviews := api.Group("/reviews")
	reviews.POST("/post-reviews", h.Review.PostReview)
	reviews.GET("/total-reviews", h.Review.TotalReviews)
	reviews.GET("/:userId", h.Review.UserReviews)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
