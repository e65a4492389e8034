package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims are the verified claims carried by a bearer token issued by the
// identity provider. The API only verifies tokens; it never issues them.
type JWTClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
