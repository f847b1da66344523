package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

// Caller is the identity resolved from a validated token for the current
// request. Every handler receives the same typed shape instead of ad hoc
// claim maps.
type Caller struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

func (c *Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Claims is the JWT payload: subject carries the username, id and role are
// custom claims.
type Claims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenGenerator issues and verifies signed session tokens.
type TokenGenerator interface {
	Issue(username string, userID int64, role string) (string, error)
	Verify(tokenString string) (*Claims, error)
}

// TokenResponse mirrors the OAuth2 password-grant response shape.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ctxKey string

const contextCallerKey ctxKey = "caller"

func ContextWithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, contextCallerKey, caller)
}

func CallerFromContext(ctx context.Context) (*Caller, bool) {
	caller, ok := ctx.Value(contextCallerKey).(*Caller)
	return caller, ok
}
