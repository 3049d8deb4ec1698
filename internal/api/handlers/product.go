package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/shopsphere/storefront/internal/api/middleware"
	"github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/models"
	service "github.com/shopsphere/storefront/internal/services"
	"github.com/shopsphere/storefront/internal/utils/response"
)

type ProductHandler struct {
	productService *service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		c, ok := claims(w, r)
		if !ok {
			return
		}

		var req models.CreateProductRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), c, &req)
		if err != nil {
			logger.Error("Product creation failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product created", slog.String("productId", product.ID))
		response.Success(w, http.StatusCreated, product)
	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Product ID is required"))
			return
		}

		product, err := h.productService.GetProduct(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Product ID is required"))
			return
		}

		var req models.UpdateProductRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), c, id, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// ListProducts serves the public catalog.
// e.g. GET /api/v1/products?category=shoes&page=1&pageSize=20
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

		req := models.ListProductsRequest{
			Category: r.URL.Query().Get("category"),
			Page:     page,
			PageSize: pageSize,
		}

		products, err := h.productService.ListProducts(r.Context(), req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}
