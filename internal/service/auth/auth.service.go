package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"account-service/internal/domain"
	"account-service/pkg/utils"
	xerrors "account-service/pkg/xerrors"
)

// UserRepository is the persistence slice the auth flow needs.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// CodeManager is the verification-code lifecycle the login flow drives.
type CodeManager interface {
	IssueCode(ctx context.Context, userID int64) (string, error)
	CheckCode(ctx context.Context, userID int64, submitted string) error
	IsVerified(ctx context.Context, userID int64) (bool, error)
}

// Notifier delivers a verification code out-of-band.
type Notifier interface {
	SendVerificationCode(ctx context.Context, phone, code string) error
}

// TokenIssuer mints bearer tokens for authenticated subjects.
type TokenIssuer interface {
	Generate(subject string, ttl time.Duration) (string, error)
}

type RegisterRequest struct {
	Name       string
	NationalID string
	Phone      string
	Email      string
	Password   string
}

// Service orchestrates registration, credential login with conditional code
// delivery, code verification and account lookups.
type Service struct {
	users    UserRepository
	codes    CodeManager
	notifier Notifier
	tokens   TokenIssuer
	tokenTTL time.Duration
}

func NewService(users UserRepository, codes CodeManager, notifier Notifier, tokens TokenIssuer, tokenTTL time.Duration) *Service {
	return &Service{
		users:    users,
		codes:    codes,
		notifier: notifier,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
}

// Register hashes the password and persists a new user. Duplicate email or
// name surfaces as the repository's conflict sentinel.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, xerrors.ErrNameRequired
	}
	if !utils.ValidateEmail(req.Email) {
		return nil, xerrors.ErrInvalidEmailFormat
	}
	if req.Password == "" {
		return nil, xerrors.ErrPasswordRequired
	}
	if req.Phone != "" && !utils.ValidatePhone(req.Phone) {
		return nil, xerrors.ErrInvalidPhoneFormat
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		NationalID:   req.NationalID,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: hash,
		AccessLevel:  domain.DefaultAccessLevel,
	}
	return s.users.Create(ctx, user)
}

// Login verifies credentials and mints a bearer token. Unknown email and
// wrong password collapse into the same ErrInvalidCredentials so callers
// cannot enumerate accounts. An unverified (or never-verified) user gets a
// fresh code over SMS; a delivery failure fails the whole login.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, xerrors.ErrUserNotFound) {
			return "", xerrors.ErrInvalidCredentials
		}
		return "", err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", xerrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.Email, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	verified, err := s.codes.IsVerified(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if !verified {
		code, err := s.codes.IssueCode(ctx, user.ID)
		if err != nil {
			return "", err
		}
		if err := s.notifier.SendVerificationCode(ctx, user.Phone, code); err != nil {
			return "", fmt.Errorf("%w: %v", xerrors.ErrSMSDeliveryFailed, err)
		}
	}

	return token, nil
}

// VerifyCode is a thin delegation to the code manager.
func (s *Service) VerifyCode(ctx context.Context, userID int64, submitted string) error {
	return s.codes.CheckCode(ctx, userID, submitted)
}

// CurrentUser resolves the token subject back to an account.
func (s *Service) CurrentUser(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}
