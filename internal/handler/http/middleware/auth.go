package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts verified access tokens and puts the actor they carry
// into the request context.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		tokenType, ok := claims["type"].(string)
		if tokenType != jwt.TokenTypeAccess || !ok {
			response.Unauthorized(w, "Invalid token")
			return
		}

		parsed, err := jwt.ClaimsFromMap(claims)
		if err != nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), ActorFromClaims(parsed))))
	}
	return http.HandlerFunc(hfn)
}
