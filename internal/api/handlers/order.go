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

type OrderHandler struct {
	orderService *service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

// Checkout turns the caller's cart into a pending order.
func (h *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		c, ok := claims(w, r)
		if !ok {
			return
		}

		var req models.CreateOrderRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		order, err := h.orderService.Checkout(r.Context(), c, &req)
		if err != nil {
			logger.Warn("Checkout failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, order)
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Order ID is required"))
			return
		}

		order, err := h.orderService.GetOrder(r.Context(), c, id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

		orders, err := h.orderService.ListOrders(r.Context(), c, models.ListOrdersRequest{Page: page, PageSize: pageSize})
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

func (h *OrderHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Order ID is required"))
			return
		}

		var req models.UpdateOrderStatusRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		order, err := h.orderService.UpdateStatus(r.Context(), c, id, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}
