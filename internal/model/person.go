package model

// Person groups one or more email accounts under a shared MitID handle.
// UserEmails preserves insertion order and never contains duplicates.
type Person struct {
	MitIDUsername string   `json:"mitid_username"`
	UserEmails    []string `json:"user_emails"`
}

// HasEmail reports whether the email is already linked to the person.
func (p *Person) HasEmail(email string) bool {
	for _, e := range p.UserEmails {
		if e == email {
			return true
		}
	}
	return false
}

// AddEmail appends the email if it is not already present. Returns true
// when the set changed.
func (p *Person) AddEmail(email string) bool {
	if p.HasEmail(email) {
		return false
	}
	p.UserEmails = append(p.UserEmails, email)
	return true
}
