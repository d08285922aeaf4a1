package mq

import "time"

// Routing keys for the events the API publishes.
const (
	RoutingKeyUserCreated    = "user.created"
	RoutingKeyUserDeleted    = "user.deleted"
	RoutingKeyMessageSent    = "message.sent"
	RoutingKeyMessageDeleted = "message.deleted"
)

type UserCreatedPayload struct {
	Email         string    `json:"email"`
	MitIDUsername string    `json:"mitid_username"`
	AccountType   string    `json:"account_type"`
	CreatedAt     time.Time `json:"created_at"`
}

type UserDeletedPayload struct {
	Email string `json:"email"`
}

type MessageSentPayload struct {
	MessageID     string    `json:"message_id"`
	SenderEmail   string    `json:"sender_email"`
	ReceiverEmail string    `json:"receiver_email"`
	EmailTag      string    `json:"email_tag"`
	MitIDUsername string    `json:"mitid_username"`
	SentAt        time.Time `json:"sent_at"`
}

type MessageDeletedPayload struct {
	MessageID string `json:"message_id"`
	DeletedBy string `json:"deleted_by"`
}
