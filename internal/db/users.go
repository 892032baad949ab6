package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ImpactGLX323/IntelliFlow/internal/apperr"
)

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	FullName       string    `json:"full_name,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func InsertUser(ctx context.Context, q Querier, email, hashedPassword, fullName string) (*User, error) {
	u := User{Email: email, HashedPassword: hashedPassword, FullName: fullName, IsActive: true}
	err := q.QueryRow(ctx, `
		INSERT INTO users (email, hashed_password, full_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		email, hashedPassword, fullName,
	).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		return nil, apperr.Conflict("email already registered")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func GetUserByEmail(ctx context.Context, q Querier, email string) (*User, error) {
	var u User
	err := q.QueryRow(ctx, `
		SELECT id, email, hashed_password, COALESCE(full_name, ''), is_active, created_at
		FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.HashedPassword, &u.FullName, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func GetUserByID(ctx context.Context, q Querier, id int64) (*User, error) {
	var u User
	err := q.QueryRow(ctx, `
		SELECT id, email, hashed_password, COALESCE(full_name, ''), is_active, created_at
		FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.HashedPassword, &u.FullName, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
