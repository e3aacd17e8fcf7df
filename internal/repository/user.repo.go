package repository

import (
	"context"
	"errors"
	"strings"

	"account-service/internal/domain"
	xerrors "account-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// ============================================
// SCAN HELPERS
// ============================================

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.NationalID,
		&u.Phone,
		&u.Email,
		&u.PasswordHash,
		&u.AccessLevel,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userColumns = `id, name, national_id, phone, email, password_hash, access_level, created_at, updated_at`

// Create inserts a new user. Duplicate email or name surfaces as the
// matching conflict sentinel, never as a silent overwrite.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (name, national_id, phone, email, password_hash, access_level, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
		RETURNING `+userColumns+`
	`, u.Name, u.NationalID, u.Phone, u.Email, u.PasswordHash, u.AccessLevel)

	saved, err := scanUser(row)
	if err != nil {
		if xerrors.ParsePGErrorCode(err) == "23505" {
			return nil, mapUniqueViolation(err)
		}
		return nil, err
	}
	return saved, nil
}

func mapUniqueViolation(err error) error {
	constraint := xerrors.ParsePGConstraint(err)
	switch {
	case strings.Contains(constraint, "email"):
		return xerrors.ErrEmailAlreadyInUse
	case strings.Contains(constraint, "name"):
		return xerrors.ErrNameAlreadyInUse
	default:
		return xerrors.ErrEmailAlreadyInUse
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email=$1
	`, email)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id=$1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrUserNotFound
	}
	return nil
}
