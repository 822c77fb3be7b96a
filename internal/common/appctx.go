package common

import (
	"context"
)

//nolint:gochecknoglobals
var ctxOwnerKey = any("ctxOwnerKey")

// ContextOwner return owner id from context.
func ContextOwner(ctx context.Context) string {
	owner, ok := ctx.Value(ctxOwnerKey).(string)
	if ok {
		return owner
	}

	return ""
}

// ContextWithOwner create new context with owner id.
func ContextWithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ctxOwnerKey, ownerID)
}
