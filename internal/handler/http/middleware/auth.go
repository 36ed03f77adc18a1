package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a verified access token and stores
// the caller's session in the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return authenticate(auth.SessionFromClaims)
}

// StreamAuthRequired is AuthRequired for the live feed: only stream tokens are accepted.
func StreamAuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return authenticate(auth.StreamSessionFromClaims)
}

func authenticate(sessionFromClaims func(map[string]interface{}) (auth.Session, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			session, err := sessionFromClaims(claims)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		}
		return http.HandlerFunc(hfn)
	}
}

type queryTokenKey struct{}

// StripQueryToken removes the jwt query parameter from the request URL and keeps
// it in the context, so request logs never carry the token.
func StripQueryToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		token := query.Get("jwt")
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		query.Del("jwt")
		u := *r.URL
		u.RawQuery = query.Encode()

		r = r.WithContext(context.WithValue(r.Context(), queryTokenKey{}, token))
		r.URL = &u
		r.RequestURI = u.RequestURI()
		next.ServeHTTP(w, r)
	})
}

// TokenFromStrippedQuery is a jwtauth token finder for the value kept by StripQueryToken.
func TokenFromStrippedQuery(r *http.Request) string {
	token, _ := r.Context().Value(queryTokenKey{}).(string)
	return token
}
