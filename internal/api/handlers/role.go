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

type RoleHandler struct {
	roleService *service.RoleService
	validator   *validator.Validate
}

func NewRoleHandler(roleService *service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService, validator: validator.New()}
}

// AssignRole records a role for a user. The caller proves ownership of the
// target account with a fresh provider token; rate limiting happens in the
// service.
func (h *RoleHandler) AssignRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.AssignRoleRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		record, err := h.roleService.Assign(r.Context(), &req)
		if err != nil {
			logger.Warn("Role assignment failed", slog.String("uid", req.UID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Role assigned", slog.String("uid", record.UID), slog.String("role", string(record.Role)))
		response.Success(w, http.StatusOK, record)
	}
}

func (h *RoleHandler) GetRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		uid := r.PathValue("uid")

		record, err := h.roleService.Get(r.Context(), uid)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, record)
	}
}
