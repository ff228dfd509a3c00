package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/signdesk/signdesk/internal/common"
	"github.com/signdesk/signdesk/internal/models"
)

type contextKey string

const principalKey contextKey = "principal"
const tokenKey contextKey = "token"

// authRequired validates the bearer token, consults the blacklist through
// the user service and stores the principal on the request context.
func (a *API) authRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AccessTokenHeaderName)
		if header == "" {
			a.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization header missing"})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")

		principal, err := a.users.ValidateToken(r.Context(), token)
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func principalFrom(r *http.Request) models.Principal {
	p, _ := r.Context().Value(principalKey).(models.Principal)
	return p
}

func tokenFrom(r *http.Request) string {
	t, _ := r.Context().Value(tokenKey).(string)
	return t
}
