package handler

import (
	"net/http"
	"strings"

	"account-service/internal/domain"
	"account-service/pkg/middleware"
)

// maskEmail masks email addresses like a***g@gmail.com
func maskEmail(email string) string {
	atIdx := strings.Index(email, "@")
	if atIdx <= 1 {
		return "***"
	}
	return email[:1] + "***" + email[atIdx-1:]
}

// currentUser resolves the token subject from the request context back to
// the account it belongs to.
func (h *AccountHandler) currentUser(r *http.Request) (*domain.User, bool) {
	subject, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		return nil, false
	}

	user, err := h.svc.CurrentUser(r.Context(), subject)
	if err != nil {
		return nil, false
	}
	return user, true
}
