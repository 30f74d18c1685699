package auth

import (
	"context"

	"google.golang.org/grpc/metadata"
)

type UserContext struct {
	Business string
	UserID   string
	Role     string
	FullName string
}

const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

type ctxKey struct{}

// WithUser stores the authenticated user on ctx. The interceptors call it; tests use it directly.
func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func FromContext(ctx context.Context) (UserContext, bool) {
	u, ok := ctx.Value(ctxKey{}).(UserContext)
	return u, ok
}

// GetBusiness returns the active business unit, falling back to the x-business metadata.
func GetBusiness(ctx context.Context) string {
	if u, ok := FromContext(ctx); ok && u.Business != "" {
		return u.Business
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get("x-business"); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

func GetUserID(ctx context.Context) string {
	if u, ok := FromContext(ctx); ok {
		return u.UserID
	}
	return ""
}

func GetFullName(ctx context.Context) string {
	if u, ok := FromContext(ctx); ok {
		return u.FullName
	}
	return ""
}

func IsAdmin(ctx context.Context) bool {
	u, ok := FromContext(ctx)
	return ok && u.Role == RoleAdmin
}
