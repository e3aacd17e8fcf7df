package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"account-service/internal/service/auth"
	"account-service/pkg/response"
	xerrors "account-service/pkg/xerrors"
)

type AccountHandler struct {
	svc *auth.Service
}

func NewAccountHandler(svc *auth.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

func (h *AccountHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.Message(w, http.StatusOK, "ok")
}

type RegisterRequest struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// Register creates an account and returns the public projection.
// POST /api/v1/auth/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.svc.Register(r.Context(), auth.RegisterRequest{
		Name:       req.Name,
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Email:      req.Email,
		Password:   req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrEmailAlreadyInUse),
			errors.Is(err, xerrors.ErrNameAlreadyInUse):
			response.Error(w, http.StatusConflict, err.Error())
		case errors.Is(err, xerrors.ErrNameRequired),
			errors.Is(err, xerrors.ErrPasswordRequired),
			errors.Is(err, xerrors.ErrInvalidEmailFormat),
			errors.Is(err, xerrors.ErrInvalidPhoneFormat):
			response.Error(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[Register] failed for email=%s err=%v", maskEmail(req.Email), err)
			response.Error(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	response.JSON(w, http.StatusCreated, user.Public())
}

// Login authenticates form-encoded credentials and returns a bearer token.
// Any credential failure yields the same unauthorized body.
// POST /api/v1/auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		response.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.svc.Login(r.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrInvalidCredentials):
			response.Error(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, xerrors.ErrSMSDeliveryFailed):
			log.Printf("[Login] code delivery failed for email=%s err=%v", maskEmail(email), err)
			response.Error(w, http.StatusBadGateway, "failed to deliver verification code")
		case errors.Is(err, xerrors.ErrTooManyCodeRequests):
			response.Error(w, http.StatusTooManyRequests, err.Error())
		default:
			log.Printf("[Login] failed for email=%s err=%v", maskEmail(email), err)
			response.Error(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "bearer",
	})
}

type VerifyCodeRequest struct {
	UserID int64  `json:"user_id"`
	Code   string `json:"code"`
}

// VerifyCode checks a submitted code and flips the account to verified.
// POST /api/v1/auth/verify-code
func (h *AccountHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.svc.VerifyCode(r.Context(), req.UserID, req.Code); err != nil {
		switch {
		case errors.Is(err, xerrors.ErrVerificationNotFound):
			response.Error(w, http.StatusNotFound, "verification record not found")
		case errors.Is(err, xerrors.ErrCodeMismatch):
			response.Error(w, http.StatusBadRequest, "verification code mismatch")
		default:
			log.Printf("[VerifyCode] failed for user=%d err=%v", req.UserID, err)
			response.Error(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	response.Message(w, http.StatusOK, "phone number verified")
}
