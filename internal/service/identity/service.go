// Package identity manages Person and User records: registration, the
// person aggregate that links accounts under a shared MitID handle, and
// credential verification for the auth middleware.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mitmail/internal/model"
	"mitmail/internal/mq"
	"mitmail/internal/store"
	"mitmail/internal/util"
	"mitmail/pkg/metrics"
)

var (
	// ErrEmailExists is returned when the email is already registered.
	ErrEmailExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidArgument is returned when a request field fails validation.
	ErrInvalidArgument = errors.New("invalid argument")
)

type Service struct {
	store     store.Store
	publisher *mq.Publisher
	logger    *zap.Logger
}

func NewService(st store.Store, publisher *mq.Publisher, logger *zap.Logger) *Service {
	return &Service{
		store:     st,
		publisher: publisher,
		logger:    logger,
	}
}

type CreateUserParams struct {
	Email         string
	Password      string
	AccountType   model.AccountType
	EmailPurpose  model.EmailTag
	MitIDUsername string
}

func (p CreateUserParams) validate() error {
	if p.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidArgument)
	}
	if p.Password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidArgument)
	}
	if p.MitIDUsername == "" {
		return fmt.Errorf("%w: mitid_username is required", ErrInvalidArgument)
	}
	if !p.AccountType.Valid() {
		return fmt.Errorf("%w: unknown account_type %q", ErrInvalidArgument, p.AccountType)
	}
	if !p.EmailPurpose.Valid() {
		return fmt.Errorf("%w: unknown email_purpose %q", ErrInvalidArgument, p.EmailPurpose)
	}
	return nil
}

// CreateUser registers a new account and links its email to the person
// aggregate for the handle. When the person update fails the user write
// is compensated with a delete so the two collections stay consistent.
func (s *Service) CreateUser(ctx context.Context, p CreateUserParams) (*model.User, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	hash, err := util.HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &model.User{
		Email:         p.Email,
		PasswordHash:  hash,
		AccountType:   p.AccountType,
		EmailPurpose:  p.EmailPurpose,
		MitIDUsername: p.MitIDUsername,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	if _, err := s.CreateOrUpdatePerson(ctx, p.MitIDUsername, []string{p.Email}); err != nil {
		s.logger.Error("Person update failed after user create, rolling back user",
			zap.String("email", p.Email),
			zap.String("mitid_username", p.MitIDUsername),
			zap.Error(err),
		)
		if delErr := s.store.Users().Delete(ctx, p.Email); delErr != nil {
			s.logger.Error("Compensating user delete failed, collections are inconsistent",
				zap.String("email", p.Email),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	metrics.IncrementUsersCreated()
	s.publish(mq.RoutingKeyUserCreated, mq.UserCreatedPayload{
		Email:         u.Email,
		MitIDUsername: u.MitIDUsername,
		AccountType:   string(u.AccountType),
		CreatedAt:     u.CreatedAt,
	})

	return u, nil
}

// Authenticate resolves raw request credentials to a user record. Unknown
// emails and wrong passwords yield the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.store.Users().Get(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !util.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetUser returns the user record for the email.
func (s *Service) GetUser(ctx context.Context, email string) (*model.User, error) {
	return s.store.Users().Get(ctx, email)
}

// DeleteUser removes the user record. The person aggregate and the user's
// messages are left untouched.
func (s *Service) DeleteUser(ctx context.Context, email string) error {
	if err := s.store.Users().Delete(ctx, email); err != nil {
		return err
	}
	s.publish(mq.RoutingKeyUserDeleted, mq.UserDeletedPayload{Email: email})
	return nil
}

// CreateOrUpdatePerson creates the person when the handle is new, and
// appends any emails not yet linked. Re-adding a linked email is a no-op.
func (s *Service) CreateOrUpdatePerson(ctx context.Context, handle string, emails []string) (*model.Person, error) {
	if handle == "" {
		return nil, fmt.Errorf("%w: mitid_username is required", ErrInvalidArgument)
	}

	p, err := s.store.Persons().Get(ctx, handle)
	created := false
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		p = &model.Person{MitIDUsername: handle, UserEmails: []string{}}
		created = true
	}

	changed := false
	for _, email := range emails {
		if email == "" {
			continue
		}
		if p.AddEmail(email) {
			changed = true
		}
	}

	if created || changed {
		if err := s.store.Persons().Put(ctx, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// GetPerson returns the person record for the handle.
func (s *Service) GetPerson(ctx context.Context, handle string) (*model.Person, error) {
	return s.store.Persons().Get(ctx, handle)
}

func (s *Service) publish(routingKey string, payload any) {
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
