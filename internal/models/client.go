package models

import "time"

// Client holds PII: first/last name, email, phone and company name are
// stored ciphertext-at-rest, with a blind index on email for equality
// lookup. The crypto codec owns the encryption; nothing here does.
type Client struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName   string `gorm:"not null" json:"first_name"`
	LastName    string `gorm:"not null" json:"last_name"`
	Email       string `gorm:"not null" json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`

	// EmailIndex is the keyed digest of the normalized email. Uniqueness of
	// client emails is enforced here, since the email column itself stores
	// non-deterministic ciphertext.
	EmailIndex string `gorm:"column:email_bidx;uniqueIndex;size:64" json:"-"`

	CommercialContactID uint          `gorm:"not null;index" json:"commercial_contact_id"`
	CommercialContact   *Collaborator `json:"commercial_contact,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields the caller must always supply.
func (c *Client) Validate() error {
	if c.FirstName == "" || c.LastName == "" {
		return Invalidf("client first and last name are required")
	}
	if c.Email == "" {
		return Invalidf("client email is required")
	}
	if c.CommercialContactID == 0 {
		return Invalidf("client must have an assigned commercial")
	}
	return nil
}
