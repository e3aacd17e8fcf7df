package handler

import (
	"errors"
	"net/http"
	"strconv"

	"account-service/internal/domain"
	"account-service/pkg/response"
	xerrors "account-service/pkg/xerrors"

	"github.com/go-chi/chi/v5"
)

// ListUsers returns public projections of all accounts.
// GET /api/v1/users
func (h *AccountHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	public := make([]*domain.UserPublic, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"users": public})
}

// GetUser returns one account. Callers may only read their own.
// GET /api/v1/users/{id}
func (h *AccountHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, current, ok := h.ownedUserFromRequest(w, r)
	if !ok {
		return
	}

	if current.ID != id {
		response.Error(w, http.StatusForbidden, "not enough permissions")
		return
	}

	response.JSON(w, http.StatusOK, current.Public())
}

// DeleteUser removes the caller's own account.
// DELETE /api/v1/users/{id}
func (h *AccountHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, current, ok := h.ownedUserFromRequest(w, r)
	if !ok {
		return
	}

	if current.ID != id {
		response.Error(w, http.StatusForbidden, "not enough permissions")
		return
	}

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, xerrors.ErrUserNotFound) {
			response.Error(w, http.StatusNotFound, "user not found")
			return
		}
		response.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response.Message(w, http.StatusOK, "user deleted")
}

// ownedUserFromRequest parses the path id and resolves the authenticated
// caller. It writes the error response itself when either step fails.
func (h *AccountHandler) ownedUserFromRequest(w http.ResponseWriter, r *http.Request) (int64, *domain.User, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid user id")
		return 0, nil, false
	}

	current, ok := h.currentUser(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return 0, nil, false
	}

	return id, current, true
}
