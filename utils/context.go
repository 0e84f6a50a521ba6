package utils

import (
	"context"

	"github.com/google/uuid"
)

type rqIDKey struct{}

func GetRequestIDFromCtx(ctx context.Context) string {
	rqID, ok := ctx.Value(rqIDKey{}).(string)
	if !ok {
		return ""
	}
	return rqID
}

// CtxWithRqID returns a context carrying a request ID, generating one when
// the context has none yet.
func CtxWithRqID(ctx context.Context) context.Context {
	if rqID, ok := ctx.Value(rqIDKey{}).(string); ok && rqID != "" {
		return ctx
	}
	return context.WithValue(ctx, rqIDKey{}, uuid.NewString())
}
