package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// UserInfo identifies the authenticated caller. Handlers trust UserID
// verbatim as the ownership scope for every query.
type UserInfo struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// Authorizer validates a bearer token and resolves the caller.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*UserInfo, error)
}

// ExtractBearer pulls the token from the Authorization header.
func ExtractBearer(r *http.Request) (string, error) {
	hdr := r.Header.Get("Authorization")
	if hdr == "" {
		return "", fmt.Errorf("missing Authorization header")
	}
	if !strings.HasPrefix(hdr, "Bearer ") {
		return "", fmt.Errorf("Authorization header must use Bearer scheme")
	}
	token := strings.TrimPrefix(hdr, "Bearer ")
	if token == "" {
		return "", fmt.Errorf("empty bearer token")
	}
	return token, nil
}
