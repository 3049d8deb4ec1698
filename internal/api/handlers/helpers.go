package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/shopsphere/storefront/internal/api/middleware"
	"github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/models"
	"github.com/shopsphere/storefront/internal/utils/response"
)

// decodeJSONBody reads and unmarshals the request body into dest, writing
// the error response itself. Returns false when the handler should stop.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) bool {

	logger := middleware.LoggerFromContext(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", slog.String("error", err.Error()))
		response.Error(w, errors.BadRequestError("Failed to read request body"))

		return false
	}

	defer r.Body.Close()

	if len(body) == 0 {
		logger.Warn("Empty request body", slog.String("endpoint", r.URL.Path))
		response.Error(w, errors.BadRequestError("Request body cannot be empty"))

		return false
	}

	if err := json.Unmarshal(body, dest); err != nil {
		logger.Warn("Failed to parse request JSON", slog.String("error", err.Error()))
		response.Error(w, errors.BadRequestError("Invalid JSON format"))

		return false
	}

	return true
}

func validateStruct(w http.ResponseWriter, validate *validator.Validate, data any) bool {

	if err := validate.Struct(data); err != nil {

		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			response.ValidationError(w, validationErrs)

			return false
		}

		response.Error(w, errors.BadRequestError("Invalid input data"))

		return false
	}

	return true
}

// claims pulls the authenticated user from the context. Nil means the
// route was wired without Authenticate.
func claims(w http.ResponseWriter, r *http.Request) (*models.Claims, bool) {

	c := middleware.ClaimsFromContext(r.Context())
	if c == nil {
		response.Error(w, errors.UnauthorizedError("Authentication required"))

		return nil, false
	}

	return c, true
}
