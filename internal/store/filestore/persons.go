package filestore

import (
	"context"
	"sync"

	"mitmail/internal/model"
	"mitmail/internal/store"
)

type personStore struct {
	mu   sync.RWMutex
	path string
	recs map[string]model.Person
}

func openPersons(path string) (*personStore, error) {
	s := &personStore{
		path: path,
		recs: make(map[string]model.Person),
	}
	if err := loadFile(path, &s.recs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *personStore) Get(ctx context.Context, handle string) (*model.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.recs[handle]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := p
	cp.UserEmails = append([]string(nil), p.UserEmails...)
	return &cp, nil
}

func (s *personStore) Put(ctx context.Context, p *model.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.recs[p.MitIDUsername]
	s.recs[p.MitIDUsername] = *p
	if err := saveFile(s.path, s.recs); err != nil {
		// keep memory and disk consistent
		if existed {
			s.recs[p.MitIDUsername] = prev
		} else {
			delete(s.recs, p.MitIDUsername)
		}
		return err
	}
	return nil
}

func (s *personStore) Delete(ctx context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.recs[handle]
	if !ok {
		return store.ErrNotFound
	}
	delete(s.recs, handle)
	if err := saveFile(s.path, s.recs); err != nil {
		s.recs[handle] = prev
		return err
	}
	return nil
}
