package models

import "time"

// Contract links a client to the collaborator selling to them. Signing is
// terminal: once signed, a contract never reverts to unsigned and its
// signed date is immutable.
type Contract struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Amount          float64    `gorm:"not null" json:"amount"`
	RemainingAmount float64    `gorm:"not null" json:"remaining_amount"`
	Signed          bool       `gorm:"not null;default:false" json:"signed"`
	SignedDate      *time.Time `json:"signed_date,omitempty"`

	ClientID uint    `gorm:"not null;index" json:"client_id"`
	Client   *Client `json:"client,omitempty"`

	SalesContactID uint          `gorm:"not null;index" json:"sales_contact_id"`
	SalesContact   *Collaborator `json:"sales_contact,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate enforces the amount invariants. Violations are rejected, never
// clamped.
func (c *Contract) Validate() error {
	if c.Amount < 0 {
		return Invalidf("contract amount cannot be negative")
	}
	if c.RemainingAmount < 0 {
		return Invalidf("remaining amount cannot be negative")
	}
	if c.RemainingAmount > c.Amount {
		return Invalidf("remaining amount %.2f exceeds contract amount %.2f", c.RemainingAmount, c.Amount)
	}
	if c.ClientID == 0 {
		return Invalidf("contract must reference a client")
	}
	if c.SalesContactID == 0 {
		return Invalidf("contract must have a sales contact")
	}
	return nil
}

// Sign transitions the contract to its signed state and records the instant,
// exactly once. Re-signing is an error.
func (c *Contract) Sign(now time.Time) error {
	if c.Signed {
		return Invalidf("contract %d is already signed", c.ID)
	}
	c.Signed = true
	c.SignedDate = &now
	return nil
}

// RecordPayment decrements the remaining amount. Overpayment is rejected.
func (c *Contract) RecordPayment(amount float64) error {
	if amount <= 0 {
		return Invalidf("payment amount must be positive")
	}
	if amount > c.RemainingAmount {
		return Invalidf("payment %.2f exceeds remaining amount %.2f", amount, c.RemainingAmount)
	}
	c.RemainingAmount -= amount
	return nil
}
