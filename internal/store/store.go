// Package store defines the persistence contract shared by all storage
// backends. Each record kind gets its own collection store keyed by the
// record's natural key (handle for persons, email for users, generated id
// for messages). Backends live in the filestore, pgstore and redistore
// subpackages and are selected by configuration.
package store

import (
	"context"
	"errors"

	"mitmail/internal/model"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned by Create when the natural key is taken.
	ErrConflict = errors.New("record already exists")
)

type PersonStore interface {
	Get(ctx context.Context, handle string) (*model.Person, error)
	// Put inserts or replaces the person record.
	Put(ctx context.Context, p *model.Person) error
	Delete(ctx context.Context, handle string) error
}

type UserStore interface {
	Get(ctx context.Context, email string) (*model.User, error)
	// Create fails with ErrConflict when the email is already registered.
	Create(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, email string) error
	ListByHandle(ctx context.Context, handle string) ([]model.User, error)
}

type MessageStore interface {
	Get(ctx context.Context, id string) (*model.Message, error)
	Create(ctx context.Context, m *model.Message) error
	Delete(ctx context.Context, id string) error
	// ListByParticipant returns every message the address received or
	// sent, received first, deduplicated by id.
	ListByParticipant(ctx context.Context, email string) ([]model.Message, error)
	// ListByHandle returns every message stamped with the handle.
	ListByHandle(ctx context.Context, handle string) ([]model.Message, error)
}

// Store bundles the three collections behind a single backend.
type Store interface {
	Persons() PersonStore
	Users() UserStore
	Messages() MessageStore
	Ping(ctx context.Context) error
	Close()
}
