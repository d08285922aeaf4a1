package redistore

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"mitmail/internal/model"
)

type personStore struct {
	rdb *redis.Client
}

func (s *personStore) Get(ctx context.Context, handle string) (*model.Person, error) {
	var p model.Person
	if err := hashGet(ctx, s.rdb, personsKey, handle, &p); err != nil {
		return nil, err
	}
	if p.UserEmails == nil {
		p.UserEmails = []string{}
	}
	return &p, nil
}

func (s *personStore) Put(ctx context.Context, p *model.Person) error {
	return hashSet(ctx, s.rdb, personsKey, p.MitIDUsername, p, false)
}

func (s *personStore) Delete(ctx context.Context, handle string) error {
	return hashDelete(ctx, s.rdb, personsKey, handle)
}

type userStore struct {
	rdb *redis.Client
}

func (s *userStore) Get(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := hashGet(ctx, s.rdb, usersKey, email, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userStore) Create(ctx context.Context, u *model.User) error {
	return hashSet(ctx, s.rdb, usersKey, u.Email, u, true)
}

func (s *userStore) Delete(ctx context.Context, email string) error {
	return hashDelete(ctx, s.rdb, usersKey, email)
}

func (s *userStore) ListByHandle(ctx context.Context, handle string) ([]model.User, error) {
	fields, err := s.rdb.HGetAll(ctx, usersKey).Result()
	if err != nil {
		return nil, err
	}
	users := []model.User{}
	for _, data := range fields {
		var u model.User
		if err := json.Unmarshal([]byte(data), &u); err != nil {
			return nil, err
		}
		if u.MitIDUsername == handle {
			users = append(users, u)
		}
	}
	sortUsersByCreation(users)
	return users, nil
}

type messageStore struct {
	rdb *redis.Client
}

func (s *messageStore) Get(ctx context.Context, id string) (*model.Message, error) {
	var m model.Message
	if err := hashGet(ctx, s.rdb, messagesKey, id, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *messageStore) Create(ctx context.Context, m *model.Message) error {
	return hashSet(ctx, s.rdb, messagesKey, m.ID, m, true)
}

func (s *messageStore) Delete(ctx context.Context, id string) error {
	return hashDelete(ctx, s.rdb, messagesKey, id)
}

func (s *messageStore) ListByParticipant(ctx context.Context, email string) ([]model.Message, error) {
	all, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	received := []model.Message{}
	sent := []model.Message{}
	for _, m := range all {
		switch {
		case m.ReceiverEmail == email:
			received = append(received, m)
		case m.SenderEmail == email:
			sent = append(sent, m)
		}
	}
	sortMessagesByCreation(received)
	sortMessagesByCreation(sent)
	return append(received, sent...), nil
}

func (s *messageStore) ListByHandle(ctx context.Context, handle string) ([]model.Message, error) {
	all, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	messages := []model.Message{}
	for _, m := range all {
		if m.MitIDUsername == handle {
			messages = append(messages, m)
		}
	}
	sortMessagesByCreation(messages)
	return messages, nil
}

func (s *messageStore) scan(ctx context.Context) ([]model.Message, error) {
	fields, err := s.rdb.HGetAll(ctx, messagesKey).Result()
	if err != nil {
		return nil, err
	}
	messages := make([]model.Message, 0, len(fields))
	for _, data := range fields {
		var m model.Message
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}
