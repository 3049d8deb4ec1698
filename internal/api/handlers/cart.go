package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/models"
	service "github.com/shopsphere/storefront/internal/services"
	"github.com/shopsphere/storefront/internal/utils/response"
)

// CartHandler serves the caller's own cart. Mutations apply to local state
// immediately; persistence is the sync engine's problem.
type CartHandler struct {
	cartService *service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		snap, err := h.cartService.Get(r.Context(), c)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, snap)
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		var req models.AddCartItemRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		snap, err := h.cartService.AddItem(r.Context(), c, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, snap)
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		var req models.UpdateCartQuantityRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		snap, err := h.cartService.UpdateQuantity(r.Context(), c, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, snap)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		productID := r.PathValue("productId")
		if productID == "" {
			response.Error(w, errors.BadRequestError("Product ID is required"))
			return
		}

		snap, err := h.cartService.RemoveItem(r.Context(), c, productID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, snap)
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		snap, err := h.cartService.Clear(r.Context(), c)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, snap)
	}
}
