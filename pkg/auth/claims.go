package auth

import (
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	IdentityID uuid.UUID
	Email      string
	Role       enums.Role
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	IdentityID uuid.UUID  `json:"identity_id"`
	Email      string     `json:"email"`
	Role       enums.Role `json:"role"`
	jwt.RegisteredClaims
}
