package auth

import (
	"context"
)

type contextKey string

const adminKey contextKey = "admin"

// AdminIdentity is the authenticated principal attached to a request.
type AdminIdentity struct {
	ID       int64
	Username string
}

// ContextWithAdmin returns a new context that carries the authenticated admin.
func ContextWithAdmin(ctx context.Context, admin AdminIdentity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, adminKey, admin)
}

// AdminFromContext retrieves the authenticated admin from the context, if any.
func AdminFromContext(ctx context.Context) (AdminIdentity, bool) {
	if ctx == nil {
		return AdminIdentity{}, false
	}
	value := ctx.Value(adminKey)
	if value == nil {
		return AdminIdentity{}, false
	}
	admin, ok := value.(AdminIdentity)
	if !ok || admin.ID == 0 {
		return AdminIdentity{}, false
	}
	return admin, true
}
