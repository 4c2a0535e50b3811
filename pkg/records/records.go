// Package records defines the record types served to lazy lists and an
// in-memory store that pages them with a stable sort order.
package records

import "strings"

// Record is a listable record with a stable identifier.
type Record interface {
	// RecordID is the stable identifier used to key rendered rows.
	RecordID() string

	// SortKey orders records; ties are broken by RecordID.
	SortKey() string
}

// Contact is a person record.
type Contact struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	AccountName string `json:"accountName,omitempty"`
}

// RecordID implements Record.
func (c Contact) RecordID() string { return c.ID }

// SortKey implements Record. Contacts sort by full name.
func (c Contact) SortKey() string {
	return strings.ToLower(c.FirstName + " " + c.LastName)
}

// Name returns the display name.
func (c Contact) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Account is an organisation record.
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
}

// RecordID implements Record.
func (a Account) RecordID() string { return a.ID }

// SortKey implements Record. Accounts sort by name.
func (a Account) SortKey() string { return strings.ToLower(a.Name) }

// Object names used in URLs, logs and metrics.
const (
	ObjectContacts = "contacts"
	ObjectAccounts = "accounts"
)
