package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims mirrors the session token payload issued by the auth service.
type tokenClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type jwtAuthorizer struct {
	secret []byte
}

// NewJWTAuthorizer returns an Authorizer that verifies HS256 session tokens.
func NewJWTAuthorizer(secret string) Authorizer {
	return &jwtAuthorizer{secret: []byte(secret)}
}

func (a *jwtAuthorizer) Authorize(_ context.Context, token string) (*UserInfo, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("token has no user id")
	}
	return &UserInfo{UserID: claims.ID, Email: claims.Email}, nil
}
