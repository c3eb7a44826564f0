package middleware

import (
	"context"

	"github.com/heartmarshall/storyfeed/internal/domain"
	"github.com/heartmarshall/storyfeed/pkg/ctxutil"
)

// RequireAdmin returns the operator stored by AdminAuth, or
// domain.ErrForbidden when the context carries none. Handlers mounted behind
// AdminAuth call it as a second guard.
func RequireAdmin(ctx context.Context) (operator string, err error) {
	operator, ok := ctxutil.OperatorFromCtx(ctx)
	if !ok {
		return "", domain.ErrForbidden
	}
	return operator, nil
}
