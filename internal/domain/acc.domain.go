package domain

import "time"

const DefaultAccessLevel = "common"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	NationalID   string    `json:"national_id"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AccessLevel  string    `json:"access_level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPublic is the projection returned to clients. It never carries the
// password hash.
type UserPublic struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	NationalID  string `json:"national_id"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	AccessLevel string `json:"access_level"`
}

func (u *User) Public() *UserPublic {
	return &UserPublic{
		ID:          u.ID,
		Name:        u.Name,
		NationalID:  u.NationalID,
		Phone:       u.Phone,
		Email:       u.Email,
		AccessLevel: u.AccessLevel,
	}
}

// UserVerification is the single live verification record per user. It
// always reflects the most recently issued code; reissuing overwrites the
// code and resets IsVerified instead of inserting a new row.
type UserVerification struct {
	UserID     int64     `json:"user_id"`
	Code       string    `json:"-"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
