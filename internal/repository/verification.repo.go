package repository

import (
	"context"
	"errors"

	"account-service/internal/domain"
	xerrors "account-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VerificationRepository struct {
	db *pgxpool.Pool
}

func NewVerificationRepository(db *pgxpool.Pool) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Upsert writes the newest code for the user. A single statement keeps
// concurrent reissues serialized on the row: the last writer's code is the
// one a later CheckCode sees.
func (r *VerificationRepository) Upsert(ctx context.Context, userID int64, code string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_verifications (user_id, code, is_verified, created_at, updated_at)
		VALUES ($1,$2,FALSE,NOW(),NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET code=EXCLUDED.code, is_verified=FALSE, updated_at=NOW()
	`, userID, code)
	return err
}

func (r *VerificationRepository) GetByUserID(ctx context.Context, userID int64) (*domain.UserVerification, error) {
	var v domain.UserVerification
	err := r.db.QueryRow(ctx, `
		SELECT user_id, code, is_verified, created_at, updated_at
		FROM user_verifications WHERE user_id=$1
	`, userID).Scan(&v.UserID, &v.Code, &v.IsVerified, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrVerificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VerificationRepository) MarkVerified(ctx context.Context, userID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_verifications SET is_verified=TRUE, updated_at=NOW() WHERE user_id=$1
	`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrVerificationNotFound
	}
	return nil
}
