// Package messaging manages message records with ownership checks: a user
// sends as themselves, and only a sender or receiver may delete.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mitmail/internal/model"
	"mitmail/internal/mq"
	"mitmail/internal/store"
	"mitmail/pkg/metrics"
)

var (
	// ErrForbidden is returned when the caller is authenticated but not
	// entitled to the operation.
	ErrForbidden = errors.New("forbidden")
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

// List returns every message the caller received or sent, received first.
func (s *Service) List(ctx context.Context, callerEmail string) ([]model.Message, error) {
	return s.store.Messages().ListByParticipant(ctx, callerEmail)
}

// ListByHandle returns every message stamped with the handle. No caller
// identity is required; kept for behavioral parity with the original API
// and documented as an access-control gap.
func (s *Service) ListByHandle(ctx context.Context, handle string) ([]model.Message, error) {
	return s.store.Messages().ListByHandle(ctx, handle)
}

// Send creates a message from the caller. The declared sender must be the
// caller's own address; the tag and handle are stamped from the caller's
// user record, never from the request.
func (s *Service) Send(ctx context.Context, caller *model.User, senderEmail, receiverEmail, text string) (*model.Message, error) {
	if senderEmail != caller.Email {
		return nil, fmt.Errorf("%w: you can only send messages from your own account", ErrForbidden)
	}
	if receiverEmail == "" {
		return nil, fmt.Errorf("%w: receiver_email is required", ErrInvalidArgument)
	}

	m := &model.Message{
		ID:            uuid.NewString(),
		SenderEmail:   caller.Email,
		ReceiverEmail: receiverEmail,
		EmailTag:      caller.EmailPurpose,
		MitIDUsername: caller.MitIDUsername,
		Text:          text,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.store.Messages().Create(ctx, m); err != nil {
		return nil, err
	}

	metrics.IncrementMessagesSent(string(m.EmailTag))
	s.publish(mq.RoutingKeyMessageSent, mq.MessageSentPayload{
		MessageID:     m.ID,
		SenderEmail:   m.SenderEmail,
		ReceiverEmail: m.ReceiverEmail,
		EmailTag:      string(m.EmailTag),
		MitIDUsername: m.MitIDUsername,
		SentAt:        m.CreatedAt,
	})

	return m, nil
}

// Delete removes a message. The caller must be its sender or receiver.
func (s *Service) Delete(ctx context.Context, callerEmail, id string) error {
	m, err := s.store.Messages().Get(ctx, id)
	if err != nil {
		return err
	}
	if !m.Involves(callerEmail) {
		return fmt.Errorf("%w: you do not have permission to delete this message", ErrForbidden)
	}
	if err := s.store.Messages().Delete(ctx, id); err != nil {
		return err
	}

	s.publish(mq.RoutingKeyMessageDeleted, mq.MessageDeletedPayload{
		MessageID: id,
		DeletedBy: callerEmail,
	})
	return nil
}

func (s *Service) publish(routingKey string, payload any) {
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
