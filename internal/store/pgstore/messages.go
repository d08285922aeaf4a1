package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mitmail/internal/model"
	"mitmail/internal/store"
)

type messageStore struct {
	pool *pgxpool.Pool
}

const messageColumns = `id, sender_email, receiver_email, email_tag, mitid_username, body, created_at`

func (s *messageStore) Get(ctx context.Context, id string) (*model.Message, error) {
	defer observe("get", "messages")()
	query := `
        SELECT ` + messageColumns + `
        FROM messages
        WHERE id = $1
    `
	m, err := scanMessage(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return m, nil
}

func (s *messageStore) Create(ctx context.Context, m *model.Message) error {
	defer observe("create", "messages")()
	query := `
        INSERT INTO messages (id, sender_email, receiver_email, email_tag, mitid_username, body, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := s.pool.Exec(ctx, query,
		m.ID,
		m.SenderEmail,
		m.ReceiverEmail,
		m.EmailTag,
		m.MitIDUsername,
		m.Text,
		m.CreatedAt,
	)
	if err != nil {
		return mapErr(err)
	}
	return nil
}

func (s *messageStore) Delete(ctx context.Context, id string) error {
	defer observe("delete", "messages")()
	query := `DELETE FROM messages WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListByParticipant returns received messages first, then sent ones. A
// message the address sent to itself shows up once, in the received group.
func (s *messageStore) ListByParticipant(ctx context.Context, email string) ([]model.Message, error) {
	defer observe("list_by_participant", "messages")()
	received, err := s.list(ctx, `
        SELECT `+messageColumns+`
        FROM messages
        WHERE receiver_email = $1
        ORDER BY created_at, id
    `, email)
	if err != nil {
		return nil, err
	}
	sent, err := s.list(ctx, `
        SELECT `+messageColumns+`
        FROM messages
        WHERE sender_email = $1 AND receiver_email <> $1
        ORDER BY created_at, id
    `, email)
	if err != nil {
		return nil, err
	}
	return append(received, sent...), nil
}

func (s *messageStore) ListByHandle(ctx context.Context, handle string) ([]model.Message, error) {
	defer observe("list_by_handle", "messages")()
	return s.list(ctx, `
        SELECT `+messageColumns+`
        FROM messages
        WHERE mitid_username = $1
        ORDER BY created_at, id
    `, handle)
}

func (s *messageStore) list(ctx context.Context, query, arg string) ([]model.Message, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

func scanMessage(row pgx.Row) (*model.Message, error) {
	var m model.Message
	err := row.Scan(
		&m.ID,
		&m.SenderEmail,
		&m.ReceiverEmail,
		&m.EmailTag,
		&m.MitIDUsername,
		&m.Text,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
