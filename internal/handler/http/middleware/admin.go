package middleware

import (
	"net/http"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/auth"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/user"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/handler/http/response"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AdminOnly gates session corrections behind the is_admin claim.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		if admin, _ := claims[jwt.ClaimIsAdmin].(bool); !admin {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
