package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}

	return false
}

// UserRoleRecord is the persisted role assignment, one document per identity.
// Created on first assignment, updated on role change, never deleted during
// normal operation.
type UserRoleRecord struct {
	UID       string    `json:"uid"       firestore:"uid"`
	Role      Role      `json:"role"      firestore:"role"`
	SellerID  string    `json:"seller_id,omitempty" firestore:"sellerId,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// AssignRoleRequest carries a proof-of-identity token issued by the identity
// provider. The endpoint rejects it when the proof is invalid or belongs to a
// different uid.
type AssignRoleRequest struct {
	UID      string `json:"uid"       validate:"required"`
	Role     Role   `json:"role"      validate:"required,oneof=buyer seller admin"`
	Proof    string `json:"proof"     validate:"required"`
	SellerID string `json:"seller_id,omitempty" validate:"omitempty,min=1"`
}

// CreateSessionRequest exchanges an identity-provider ID token for a server
// session token.
type CreateSessionRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type SessionResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	UID       string `json:"uid"`
	Role      Role   `json:"role"`
}

// JWT claims for the server session token.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}
