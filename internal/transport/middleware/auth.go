package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/heartmarshall/storyfeed/internal/domain"
	"github.com/heartmarshall/storyfeed/pkg/ctxutil"
)

type adminTokenValidator interface {
	ValidateAdminToken(token string) (string, error)
}

// AdminAuth requires a valid admin bearer token. The token subject is stored
// in the context as the operator name.
func AdminAuth(validator adminTokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			operator, err := validator.ValidateAdminToken(token)
			switch {
			case errors.Is(err, domain.ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			case err != nil:
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := ctxutil.WithOperator(r.Context(), operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
