package xerrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ParsePGErrorCode extracts the postgres error code from a driver error,
// e.g. 23505 for unique_violation.
func ParsePGErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return "unknown"
}

// ParsePGConstraint returns the violated constraint name, if any.
func ParsePGConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
)

// Registration / Login
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyInUse  = errors.New("email already in use")
	ErrNameAlreadyInUse   = errors.New("name already in use")

	ErrEmailRequired    = errors.New("email required")
	ErrPasswordRequired = errors.New("password required")
	ErrNameRequired     = errors.New("name required")

	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrInvalidPhoneFormat = errors.New("invalid phone format")
)

// Verification codes
var (
	ErrVerificationNotFound = errors.New("verification record not found")
	ErrCodeMismatch         = errors.New("verification code mismatch")
	ErrTooManyCodeRequests  = errors.New("too many verification code requests")
)

// Outbound delivery
var (
	ErrSMSDeliveryFailed = errors.New("sms delivery failed")
)

// Token
var (
	ErrInvalidToken = errors.New("invalid token")
)
