package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mitmail/internal/model"
	"mitmail/internal/store"
)

type userStore struct {
	pool *pgxpool.Pool
}

func (s *userStore) Get(ctx context.Context, email string) (*model.User, error) {
	defer observe("get", "users")()
	query := `
        SELECT email, password_hash, account_type, email_purpose, mitid_username, created_at
        FROM users
        WHERE email = $1
    `
	var u model.User
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&u.Email,
		&u.PasswordHash,
		&u.AccountType,
		&u.EmailPurpose,
		&u.MitIDUsername,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *userStore) Create(ctx context.Context, u *model.User) error {
	defer observe("create", "users")()
	query := `
        INSERT INTO users (email, password_hash, account_type, email_purpose, mitid_username, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := s.pool.Exec(ctx, query,
		u.Email,
		u.PasswordHash,
		u.AccountType,
		u.EmailPurpose,
		u.MitIDUsername,
		u.CreatedAt,
	)
	if err != nil {
		return mapErr(err)
	}
	return nil
}

func (s *userStore) Delete(ctx context.Context, email string) error {
	defer observe("delete", "users")()
	query := `DELETE FROM users WHERE email = $1`
	tag, err := s.pool.Exec(ctx, query, email)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *userStore) ListByHandle(ctx context.Context, handle string) ([]model.User, error) {
	defer observe("list_by_handle", "users")()
	query := `
        SELECT email, password_hash, account_type, email_purpose, mitid_username, created_at
        FROM users
        WHERE mitid_username = $1
        ORDER BY created_at
    `
	rows, err := s.pool.Query(ctx, query, handle)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.Email,
			&u.PasswordHash,
			&u.AccountType,
			&u.EmailPurpose,
			&u.MitIDUsername,
			&u.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
