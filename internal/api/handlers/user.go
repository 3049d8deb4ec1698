package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/shopsphere/storefront/internal/api/middleware"
	"github.com/shopsphere/storefront/internal/models"
	service "github.com/shopsphere/storefront/internal/services"
	"github.com/shopsphere/storefront/internal/utils/response"
)

type UserHandler struct {
	userService *service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

// CreateSession exchanges a provider ID token for a server session token.
func (h *UserHandler) CreateSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateSessionRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		session, err := h.userService.CreateSession(r.Context(), &req)
		if err != nil {
			logger.Warn("Session creation failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Session created", slog.String("uid", session.UID), slog.String("role", string(session.Role)))
		response.Success(w, http.StatusCreated, session)
	}
}

// DestroySession signs the caller out.
func (h *UserHandler) DestroySession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		h.userService.DestroySession(r.Context(), c.UID)

		middleware.LoggerFromContext(r.Context()).Info("Session destroyed", slog.String("uid", c.UID))
		response.Success(w, http.StatusOK, map[string]string{"status": "signed_out"})
	}
}
