package model

import "time"

type AccountType string

const (
	AccountTypeCompany  AccountType = "company"
	AccountTypePersonal AccountType = "personal"
)

// Valid reports whether the account type is one of the known values.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeCompany, AccountTypePersonal:
		return true
	}
	return false
}

// EmailTag classifies a user's outgoing mail. It is set once per user
// (email_purpose) and stamped onto every message the user sends.
type EmailTag string

const (
	EmailTagMarketing     EmailTag = "marketing"
	EmailTagStandard      EmailTag = "standard"
	EmailTagNotifications EmailTag = "notifications"
	EmailTagNewsletter    EmailTag = "newsletter"
)

// Valid reports whether the tag is one of the known values.
func (t EmailTag) Valid() bool {
	switch t {
	case EmailTagMarketing, EmailTagStandard, EmailTagNotifications, EmailTagNewsletter:
		return true
	}
	return false
}

// User is a single email account. Email is the primary key; the password
// hash never leaves the API boundary.
type User struct {
	Email         string      `json:"email"`
	PasswordHash  string      `json:"password_hash"`
	AccountType   AccountType `json:"account_type"`
	EmailPurpose  EmailTag    `json:"email_purpose"`
	MitIDUsername string      `json:"mitid_username"`
	CreatedAt     time.Time   `json:"created_at"`
}
