package middleware

import (
	"net/http"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/auth"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/handler/http/response"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired admits only verified access tokens. A refresh token carries
// the wrong type claim and is rejected even with a valid signature.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if kind, _ := claims[jwt.ClaimTokenType].(string); kind != jwt.TokenTypeAccess {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
