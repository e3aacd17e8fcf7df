package middleware

import (
	"context"
	"net/http"
	"strings"

	"account-service/pkg/jwtutil"
	"account-service/pkg/response"
)

type contextKey string

// ContextSubject holds the token subject (the account email) for the
// current request.
const ContextSubject contextKey = "auth_subject"

type Middleware struct {
	issuer *jwtutil.Issuer
}

func New(issuer *jwtutil.Issuer) *Middleware {
	return &Middleware{issuer: issuer}
}

// Require rejects the request before any protected handler runs unless a
// valid bearer token is presented.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		subject, err := m.issuer.Validate(tokenStr)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), ContextSubject, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SubjectFromContext returns the authenticated subject, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(ContextSubject).(string)
	return subject, ok && subject != ""
}
