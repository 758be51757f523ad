package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	TokenIssuer = "baggr-auth"
)

var ErrWrongTokenType = errors.New("wrong token type")

// Claims is the payload of both access and refresh tokens. The jti
// (RegisteredClaims.ID) identifies a refresh token in storage.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	IsStaff   bool      `json:"is_staff"`
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}

func signingKey() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("FATAL: JWT_SECRET environment variable is not set. Refusing to start with an insecure configuration.")
	}
	return []byte(secret)
}

func sign(userID uuid.UUID, email string, isStaff bool, tokenType string, ttl time.Duration) (string, error) {
	issuedAt := time.Now()
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		IsStaff:   isStaff,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    TokenIssuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey())
}

// GenerateAccessToken issues a short-lived token accepted by the userinfo endpoint.
func GenerateAccessToken(userID uuid.UUID, email string, isStaff bool, ttl time.Duration) (string, error) {
	return sign(userID, email, isStaff, TokenTypeAccess, ttl)
}

// GenerateRefreshToken issues a token that can only be exchanged for a new pair.
func GenerateRefreshToken(userID uuid.UUID, email string, isStaff bool, ttl time.Duration) (string, error) {
	return sign(userID, email, isStaff, TokenTypeRefresh, ttl)
}

// ValidateToken checks signature, expiry and issuer of an HS256 token.
func ValidateToken(tokenString string) (*Claims, error) {
	key := signingKey()
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateTokenOfType is ValidateToken plus a check on the token_type claim.
func ValidateTokenOfType(tokenString, tokenType string) (*Claims, error) {
	claims, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrWrongTokenType, claims.TokenType, tokenType)
	}
	return claims, nil
}
