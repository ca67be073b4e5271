package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AuthID uuid.UUID
	Email  string
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients. AuthID is the
// external authenticated identity; profile resolution happens server-side.
type AccessTokenClaims struct {
	AuthID uuid.UUID `json:"auth_id"`
	Email  string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}
