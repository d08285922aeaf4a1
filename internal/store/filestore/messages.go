package filestore

import (
	"context"
	"sort"
	"sync"

	"mitmail/internal/model"
	"mitmail/internal/store"
)

type messageStore struct {
	mu   sync.RWMutex
	path string
	recs map[string]model.Message
}

func openMessages(path string) (*messageStore, error) {
	s := &messageStore{
		path: path,
		recs: make(map[string]model.Message),
	}
	if err := loadFile(path, &s.recs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *messageStore) Get(ctx context.Context, id string) (*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.recs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := m
	return &cp, nil
}

func (s *messageStore) Create(ctx context.Context, m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recs[m.ID]; exists {
		return store.ErrConflict
	}
	s.recs[m.ID] = *m
	if err := saveFile(s.path, s.recs); err != nil {
		delete(s.recs, m.ID)
		return err
	}
	return nil
}

func (s *messageStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.recs[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(s.recs, id)
	if err := saveFile(s.path, s.recs); err != nil {
		s.recs[id] = prev
		return err
	}
	return nil
}

func (s *messageStore) ListByParticipant(ctx context.Context, email string) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	received := []model.Message{}
	sent := []model.Message{}
	for _, m := range s.recs {
		switch {
		case m.ReceiverEmail == email:
			received = append(received, m)
		case m.SenderEmail == email:
			sent = append(sent, m)
		}
	}
	sortByCreation(received)
	sortByCreation(sent)
	return append(received, sent...), nil
}

func (s *messageStore) ListByHandle(ctx context.Context, handle string) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := []model.Message{}
	for _, m := range s.recs {
		if m.MitIDUsername == handle {
			messages = append(messages, m)
		}
	}
	sortByCreation(messages)
	return messages, nil
}

func sortByCreation(ms []model.Message) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].CreatedAt.Equal(ms[j].CreatedAt) {
			return ms[i].ID < ms[j].ID
		}
		return ms[i].CreatedAt.Before(ms[j].CreatedAt)
	})
}
