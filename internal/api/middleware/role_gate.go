package middleware

import (
	"net/http"
	"strings"

	"github.com/shopsphere/storefront/internal/authz"
	"github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/identity"
	"github.com/shopsphere/storefront/internal/models"
	"github.com/shopsphere/storefront/internal/utils/response"
)

// RoleGate maps route allowed-role sets onto the central authz decision.
// Every protected surface goes through Evaluate; no handler does its own
// role check.
type RoleGate struct {
	loginPath string
}

func NewRoleGate(loginPath string) *RoleGate {
	return &RoleGate{loginPath: loginPath}
}

// Require allows the request only when the authenticated claims carry one of
// the given roles. Unknown (no claims at all) yields 401; Denied redirects
// browsers to the login destination carrying the requested path, and answers
// API clients with 403.
func (g *RoleGate) Require(roles ...models.Role) func(http.Handler) http.HandlerFunc {
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			logger := LoggerFromContext(r.Context())
			claims := ClaimsFromContext(r.Context())

			res := authz.Resolution{}
			if claims != nil {
				res.Resolved = true
				res.Identity = &identity.Identity{UID: claims.UID, Email: claims.Email, Role: claims.Role}
			}

			switch authz.Evaluate(res, roles) {
			case authz.Allowed:
				next.ServeHTTP(w, r)

			case authz.Unknown:
				// Identity resolution pending is transient, not an error.
				response.Error(w, errors.UnauthorizedError("Identity not resolved"))

			case authz.Denied:
				logger.Warn("Role gate denied request")

				target := authz.Redirect(g.loginPath, r.URL.RequestURI())

				if wantsHTML(r) {
					http.Redirect(w, r, target, http.StatusSeeOther)
					return
				}

				response.Error(w, errors.ForbiddenError("Role not permitted").WithDetail(target))
			}
		}
	}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
