package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/identity"
	"github.com/shopsphere/storefront/internal/models"
)

// UserService exchanges identity-provider tokens for server sessions. The
// heavy lifting (token verification, role lookup) lives in the identity
// provider adapter; this service mints the session JWT and brings the user
// session up.
type UserService struct {
	provider identity.Provider
	sessions *SessionManager
	jwtKey   []byte
	expiry   time.Duration
}

func NewUserService(provider identity.Provider, sessions *SessionManager, jwtKey []byte, expiry time.Duration) *UserService {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	return &UserService{provider: provider, sessions: sessions, jwtKey: jwtKey, expiry: expiry}
}

func (s *UserService) CreateSession(ctx context.Context, req *models.CreateSessionRequest) (*models.SessionResponse, error) {

	id, err := s.provider.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}

	// Brings the session up; on first touch the sync engine pulls the
	// persisted cart/wishlist in the background.
	s.sessions.Attach(id)

	expiresAt := time.Now().Add(s.expiry)

	claims := &models.Claims{
		UID:   id.UID,
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		return nil, errors.InternalError("Failed to sign session token").WithError(err)
	}

	return &models.SessionResponse{
		Token:     token,
		ExpiresIn: int(s.expiry.Seconds()),
		UID:       id.UID,
		Role:      id.Role,
	}, nil
}

// DestroySession signs the user out: sync stops, retention policy applies.
func (s *UserService) DestroySession(ctx context.Context, uid string) {
	s.sessions.SignOut(uid)
}
