// Package services provides external service integrations and technical concerns like tokens and event publishing
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/drey/queueline/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token service error constants
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenService handles JWT token generation and validation
type TokenService interface {
	GenerateToken(identity TokenIdentity) (string, error)
	ValidateToken(token string) (*TokenClaims, error)
}

// TokenIdentity is the account data embedded in issued tokens
type TokenIdentity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	UserType string `json:"user_type"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	TokenIdentity
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenID   string    `json:"jti"`
}

// TokenServiceImpl implements TokenService
type TokenServiceImpl struct {
	accessTokenTTL time.Duration
	secretKey      []byte
	issuer         string
	audience       string
}

// NewTokenService creates a new HS256 token service
func NewTokenService(accessTokenTTL time.Duration, issuer, audience, secretKey string) (TokenService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("secret key is required")
	}

	return &TokenServiceImpl{
		accessTokenTTL: accessTokenTTL,
		secretKey:      []byte(secretKey),
		issuer:         issuer,
		audience:       audience,
	}, nil
}

// GenerateToken creates a signed access token carrying the account identity
func (s *TokenServiceImpl) GenerateToken(identity TokenIdentity) (string, error) {
	now := utils.UTCNow()
	claims := jwt.MapClaims{
		"user_id":   identity.UserID,
		"username":  identity.Username,
		"user_type": identity.UserType,
		"name":      identity.Name,
		"role":      identity.Role,
		"iss":       s.issuer,
		"aud":       s.audience,
		"iat":       now.Unix(),
		"exp":       now.Add(s.accessTokenTTL).Unix(),
		"jti":       uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token, returning its claims
func (s *TokenServiceImpl) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	result := &TokenClaims{}
	if v, ok := claims["user_id"].(string); ok {
		result.UserID = v
	}
	if v, ok := claims["username"].(string); ok {
		result.Username = v
	}
	if v, ok := claims["user_type"].(string); ok {
		result.UserType = v
	}
	if v, ok := claims["name"].(string); ok {
		result.Name = v
	}
	if v, ok := claims["role"].(string); ok {
		result.Role = v
	}
	if v, ok := claims["jti"].(string); ok {
		result.TokenID = v
	}
	if v, ok := claims["iat"].(float64); ok {
		result.IssuedAt = time.Unix(int64(v), 0).UTC()
	}
	if v, ok := claims["exp"].(float64); ok {
		result.ExpiresAt = time.Unix(int64(v), 0).UTC()
	}

	if result.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return result, nil
}
