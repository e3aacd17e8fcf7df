package verification

import (
	"context"
	"errors"

	"account-service/internal/domain"
	xerrors "account-service/pkg/xerrors"
)

// Repository is the persistence slice the code manager needs.
type Repository interface {
	Upsert(ctx context.Context, userID int64, code string) error
	GetByUserID(ctx context.Context, userID int64) (*domain.UserVerification, error)
	MarkVerified(ctx context.Context, userID int64) error
}

// ResendLimiter gates how often one user may be issued a fresh code.
type ResendLimiter interface {
	CanRequest(ctx context.Context, userID int64) error
}

// Service owns the per-user verification state machine: Unverified after
// every issue, Verified after a successful check. Only IssueCode moves state
// back to Unverified.
type Service struct {
	repo       Repository
	limiter    ResendLimiter
	codeDigits int
}

func NewService(repo Repository, limiter ResendLimiter) *Service {
	return &Service{repo: repo, limiter: limiter, codeDigits: 6}
}

// IssueCode generates a fresh random numeric code and persists it as the
// user's only live code. An existing record is overwritten and its state
// reset to Unverified. The plaintext code is returned for delivery; it is
// stored in clear because it is short-lived and single-purpose — a real
// hardening pass would store a hash plus an expiry instead.
func (s *Service) IssueCode(ctx context.Context, userID int64) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.CanRequest(ctx, userID); err != nil {
			return "", err
		}
	}

	code, err := randomCode(s.codeDigits)
	if err != nil {
		return "", err
	}

	if err := s.repo.Upsert(ctx, userID, code); err != nil {
		return "", err
	}
	return code, nil
}

// CheckCode validates a submitted code against the user's record. Exact
// string match only. A match flips the record to Verified; a repeat check
// with the current code still succeeds since only IssueCode resets state.
func (s *Service) CheckCode(ctx context.Context, userID int64, submitted string) error {
	rec, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if rec.Code != submitted {
		return xerrors.ErrCodeMismatch
	}

	if rec.IsVerified {
		return nil
	}
	return s.repo.MarkVerified(ctx, userID)
}

// IsVerified reports whether the user has passed a code check. A missing
// record reads as unverified, not as an error.
func (s *Service) IsVerified(ctx context.Context, userID int64) (bool, error) {
	rec, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, xerrors.ErrVerificationNotFound) {
			return false, nil
		}
		return false, err
	}
	return rec.IsVerified, nil
}
