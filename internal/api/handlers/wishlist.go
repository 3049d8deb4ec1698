package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/models"
	service "github.com/shopsphere/storefront/internal/services"
	"github.com/shopsphere/storefront/internal/utils/response"
)

type WishlistHandler struct {
	wishlistService *service.WishlistService
	validator       *validator.Validate
}

func NewWishlistHandler(wishlistService *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService, validator: validator.New()}
}

func (h *WishlistHandler) GetWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		snap, err := h.wishlistService.Get(r.Context(), c)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, snap)
	}
}

func (h *WishlistHandler) AddEntry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		var req models.AddWishlistEntryRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		snap, err := h.wishlistService.Add(r.Context(), c, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, snap)
	}
}

func (h *WishlistHandler) RemoveEntry() http.HandlerFunc {
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

		snap, err := h.wishlistService.Remove(r.Context(), c, productID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, snap)
	}
}
