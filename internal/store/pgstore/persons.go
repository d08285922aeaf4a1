package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mitmail/internal/model"
	"mitmail/internal/store"
)

type personStore struct {
	pool *pgxpool.Pool
}

func (s *personStore) Get(ctx context.Context, handle string) (*model.Person, error) {
	defer observe("get", "persons")()
	query := `
        SELECT mitid_username, user_emails
        FROM persons
        WHERE mitid_username = $1
    `
	var p model.Person
	err := s.pool.QueryRow(ctx, query, handle).Scan(&p.MitIDUsername, &p.UserEmails)
	if err != nil {
		return nil, mapErr(err)
	}
	if p.UserEmails == nil {
		p.UserEmails = []string{}
	}
	return &p, nil
}

func (s *personStore) Put(ctx context.Context, p *model.Person) error {
	defer observe("put", "persons")()
	query := `
        INSERT INTO persons (mitid_username, user_emails)
        VALUES ($1, $2)
        ON CONFLICT (mitid_username) DO UPDATE SET user_emails = EXCLUDED.user_emails
    `
	_, err := s.pool.Exec(ctx, query, p.MitIDUsername, p.UserEmails)
	if err != nil {
		return mapErr(err)
	}
	return nil
}

func (s *personStore) Delete(ctx context.Context, handle string) error {
	defer observe("delete", "persons")()
	query := `DELETE FROM persons WHERE mitid_username = $1`
	tag, err := s.pool.Exec(ctx, query, handle)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
