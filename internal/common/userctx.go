package common

import (
	"context"
	"strings"
)

// UserContext holds per-request user identity and preferences resolved by the
// auth middleware. When absent (nil), operations run against the "default"
// single-user scope (useful for local, single-tenant deployments).
type UserContext struct {
	UserID   string
	Username string
	Currency string
}

// DefaultUserID scopes all data for unauthenticated requests.
const DefaultUserID = "default"

type contextKey int

const userContextKey contextKey = iota

// WithUserContext stores a UserContext in the request context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// UserContextFromContext retrieves the UserContext from context, or nil if absent.
func UserContextFromContext(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey).(*UserContext)
	return uc
}

// ResolveUserID returns the UserID from context, or "default" when no user
// context is present. Every storage operation on user domain data is scoped
// by this value.
func ResolveUserID(ctx context.Context) string {
	if uc := UserContextFromContext(ctx); uc != nil && uc.UserID != "" {
		return uc.UserID
	}
	return DefaultUserID
}

// ResolveCurrency returns the user's display currency if present and
// plausibly an ISO code, otherwise the given fallback.
func ResolveCurrency(ctx context.Context, fallback string) string {
	if uc := UserContextFromContext(ctx); uc != nil {
		c := strings.ToUpper(strings.TrimSpace(uc.Currency))
		if len(c) == 3 {
			return c
		}
	}
	return fallback
}
