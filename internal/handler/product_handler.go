package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "ecomstore/internal/errors"
	"ecomstore/internal/model"
	"ecomstore/internal/service"
)

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	svc service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// CreateProductRequest represents a new catalog entry.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required" swaggertype:"number"`
	Color       string           `json:"color"`
	Image       string           `json:"image"`
	Rating      float64          `json:"rating" validate:"gte=0,lte=5"`
}

// UpdateProductRequest represents a partial product update. Omitted fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number"`
	Color       *string          `json:"color"`
	Image       *string          `json:"image"`
	Rating      *float64         `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

// ProductResponse represents a single product after a write.
type ProductResponse struct {
	Message string         `json:"message"`
	Product *model.Product `json:"product"`
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body CreateProductRequest true "Product"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/create-product [post]
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}

	var req CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.svc.Create(c.Request().Context(), &model.Product{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       *req.Price,
		Color:       req.Color,
		Image:       req.Image,
		Rating:      req.Rating,
	}, caller.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ProductResponse{Message: "Product created successfully", Product: product})
}

// ListProducts godoc
// @Summary List products
// @Description Filters combine with AND. "all" disables a filter. search matches name, description or category.
// @Tags products
// @Produce json
// @Param category query string false "Category or all"
// @Param color query string false "Color or all"
// @Param search query string false "Case-insensitive substring"
// @Param page query int false "Page, from 1" default(1)
// @Param limit query int false "Page size" default(16)
// @Success 200 {object} model.ProductPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	page, err := h.svc.List(c.Request().Context(), service.ListParams{
		Category: c.QueryParam("category"),
		Color:    c.QueryParam("color"),
		Search:   c.QueryParam("search"),
		Page:     c.QueryParam("page"),
		Limit:    c.QueryParam("limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// GetProduct godoc
// @Summary Get a product with its reviews
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} model.ProductDetail
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := uuidParam(c, "id", apperrors.ErrProductNotFound)
	if err != nil {
		return err
	}
	detail, err := h.svc.GetOne(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// UpdateProduct godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Product ID"
// @Param request body UpdateProductRequest true "Fields to change"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/update-product/{id} [patch]
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := uuidParam(c, "id", apperrors.ErrProductNotFound)
	if err != nil {
		return err
	}

	var req UpdateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.svc.Update(c.Request().Context(), id, model.ProductPatch{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Color:       req.Color,
		Image:       req.Image,
		Rating:      req.Rating,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ProductResponse{Message: "Product updated successfully", Product: product})
}

// DeleteProduct godoc
// @Summary Delete a product and its reviews
// @Tags products
// @Produce json
// @Security CookieAuth
// @Param id path string true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := uuidParam(c, "id", apperrors.ErrProductNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}

// RelatedProducts godoc
// @Summary List related products
// @Description Products in the same category or sharing a word of the name.
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {array} model.Product
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/related/{id} [get]
func (h *ProductHandler) RelatedProducts(c echo.Context) error {
	id, err := uuidParam(c, "id", apperrors.ErrProductNotFound)
	if err != nil {
		return err
	}
	related, err := h.svc.Related(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, related)
}
