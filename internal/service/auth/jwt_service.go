package auth

import (
	"context"
	"time"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/google/uuid"
)

// TokenTypeAccess is the only token type issued by this service.
const TokenTypeAccess = "access"

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for user.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, ErrWrongTokenType or
	// ErrInvalidToken when validation fails.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	UserID    uuid.UUID   `json:"uid,omitempty"`
	Email     string      `json:"email,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
	TokenType string      `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
