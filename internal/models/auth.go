package models

import "github.com/golang-jwt/jwt/v5"

// AuthUser describes the authenticated owner extracted from the token.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
