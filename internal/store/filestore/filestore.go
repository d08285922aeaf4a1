// Package filestore is the flat-file storage backend. Each collection is a
// single JSON document on disk, decoded into an in-memory map at startup
// and rewritten in full on every mutation. A RWMutex per collection gives
// the single-writer, concurrent-reader discipline the services rely on.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"mitmail/internal/store"
)

type Store struct {
	persons  *personStore
	users    *userStore
	messages *messageStore
}

// Open loads the three collection files from dir, creating dir and empty
// collections as needed.
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	persons, err := openPersons(filepath.Join(dir, "persons.json"))
	if err != nil {
		return nil, err
	}
	users, err := openUsers(filepath.Join(dir, "users.json"))
	if err != nil {
		return nil, err
	}
	messages, err := openMessages(filepath.Join(dir, "messages.json"))
	if err != nil {
		return nil, err
	}

	logger.Info("File store loaded",
		zap.String("dir", dir),
		zap.Int("persons", len(persons.recs)),
		zap.Int("users", len(users.recs)),
		zap.Int("messages", len(messages.recs)),
	)

	return &Store{
		persons:  persons,
		users:    users,
		messages: messages,
	}, nil
}

func (s *Store) Persons() store.PersonStore   { return s.persons }
func (s *Store) Users() store.UserStore       { return s.users }
func (s *Store) Messages() store.MessageStore { return s.messages }

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() {}

// loadFile decodes the collection file into v. A missing file is an empty
// collection, not an error.
func loadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// saveFile rewrites the collection file atomically: a reader either sees
// the old document or the new one, never a partial write.
func saveFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
