package model

import "time"

// Message is a text message exchanged between two email addresses.
// EmailTag and MitIDUsername are copied from the sender at send time and
// never change afterwards. The sender and receiver addresses are not
// required to belong to registered users.
type Message struct {
	ID            string    `json:"id"`
	SenderEmail   string    `json:"sender_email"`
	ReceiverEmail string    `json:"receiver_email"`
	EmailTag      EmailTag  `json:"email_tag"`
	MitIDUsername string    `json:"mitid_username"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"created_at"`
}

// Involves reports whether the given address is the sender or receiver.
func (m *Message) Involves(email string) bool {
	return m.SenderEmail == email || m.ReceiverEmail == email
}
