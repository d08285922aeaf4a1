package filestore

import (
	"context"
	"sort"
	"sync"

	"mitmail/internal/model"
	"mitmail/internal/store"
)

type userStore struct {
	mu   sync.RWMutex
	path string
	recs map[string]model.User
}

func openUsers(path string) (*userStore, error) {
	s := &userStore{
		path: path,
		recs: make(map[string]model.User),
	}
	if err := loadFile(path, &s.recs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *userStore) Get(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.recs[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (s *userStore) Create(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recs[u.Email]; exists {
		return store.ErrConflict
	}
	s.recs[u.Email] = *u
	if err := saveFile(s.path, s.recs); err != nil {
		delete(s.recs, u.Email)
		return err
	}
	return nil
}

func (s *userStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.recs[email]
	if !ok {
		return store.ErrNotFound
	}
	delete(s.recs, email)
	if err := saveFile(s.path, s.recs); err != nil {
		s.recs[email] = prev
		return err
	}
	return nil
}

func (s *userStore) ListByHandle(ctx context.Context, handle string) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []model.User{}
	for _, u := range s.recs {
		if u.MitIDUsername == handle {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}
