package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsphere/storefront/internal/api/middleware"
	"github.com/shopsphere/storefront/internal/models"
)

var testJwtKey = []byte("test-secret-key-123456789012345")

func createTestToken(t *testing.T, uid string, role models.Role, duration time.Duration, key []byte, method jwt.SigningMethod) string {
	t.Helper()

	claims := &models.Claims{
		UID:   uid,
		Email: uid + "@example.com",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func TestAuthenticate(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddleware(testJwtKey)

	var nextCalled bool

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true

		claims := middleware.ClaimsFromContext(r.Context())
		require.NotNil(t, claims)
		assert.Equal(t, "u1", claims.UID)
		assert.Equal(t, models.RoleBuyer, claims.Role)

		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectNextCall bool
	}{
		{
			name:           "Success - Valid Token",
			authHeader:     "Bearer " + createTestToken(t, "u1", models.RoleBuyer, time.Hour, testJwtKey, jwt.SigningMethodHS256),
			expectedStatus: http.StatusOK,
			expectNextCall: true,
		},
		{
			name:           "Failure - Missing Header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Failure - Not A Bearer Token",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Failure - Expired Token",
			authHeader:     "Bearer " + createTestToken(t, "u1", models.RoleBuyer, -time.Hour, testJwtKey, jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Failure - Wrong Signing Key",
			authHeader:     "Bearer " + createTestToken(t, "u1", models.RoleBuyer, time.Hour, []byte("some-other-key-45678901234567890"), jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Failure - Tampered Signature",
			authHeader:     "Bearer " + createTestToken(t, "u1", models.RoleBuyer, time.Hour, testJwtKey, jwt.SigningMethodHS256) + "x",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			nextCalled = false
			req := httptest.NewRequest("GET", "/api/v1/cart", nil)

			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			recorder := httptest.NewRecorder()

			// Act
			authMiddleware.Authenticate(next)(recorder, req)

			// Assert
			assert.Equal(t, tc.expectedStatus, recorder.Code)
			assert.Equal(t, tc.expectNextCall, nextCalled)
		})
	}
}

func requestWithClaims(method, target string, c *models.Claims) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if c != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, c))
	}

	return req
}

func TestRoleGateRequire(t *testing.T) {
	gate := middleware.NewRoleGate("/login")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Success - Role In Allowed Set", func(t *testing.T) {
		// Arrange
		req := requestWithClaims("GET", "/api/v1/roles/u2", &models.Claims{UID: "u1", Role: models.RoleAdmin})
		recorder := httptest.NewRecorder()

		// Act
		gate.Require(models.RoleAdmin)(next)(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Success - Empty Set Admits Any Authenticated User", func(t *testing.T) {
		// Arrange
		req := requestWithClaims("GET", "/api/v1/cart", &models.Claims{UID: "u1", Role: models.RoleBuyer})
		recorder := httptest.NewRecorder()

		// Act
		gate.Require()(next)(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Failure - No Claims Means Unresolved, Not Denied", func(t *testing.T) {
		// Arrange
		req := requestWithClaims("GET", "/api/v1/cart", nil)
		recorder := httptest.NewRecorder()

		// Act
		gate.Require()(next)(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Failure - API Client Gets 403 With Redirect Target", func(t *testing.T) {
		// Arrange
		req := requestWithClaims("POST", "/api/v1/products", &models.Claims{UID: "u1", Role: models.RoleBuyer})
		recorder := httptest.NewRecorder()

		// Act
		gate.Require(models.RoleSeller, models.RoleAdmin)(next)(recorder, req)

		// Assert
		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "/login?next=%2Fapi%2Fv1%2Fproducts")
	})

	t.Run("Failure - Browser Gets Redirected To Login", func(t *testing.T) {
		// Arrange
		req := requestWithClaims("GET", "/account/orders", &models.Claims{UID: "u1", Role: models.RoleBuyer})
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		recorder := httptest.NewRecorder()

		// Act
		gate.Require(models.RoleAdmin)(next)(recorder, req)

		// Assert
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, "/login?next=%2Faccount%2Forders", recorder.Header().Get("Location"))
	})
}
