package models

import "time"

// Event is the one-to-one follow-up of a signed contract. Its support
// contact starts unset; only management assigns one, and only to a support
// collaborator.
type Event struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Location  string    `json:"location"`
	DateStart time.Time `gorm:"not null" json:"date_start"`
	DateEnd   time.Time `gorm:"not null" json:"date_end"`
	Attendees int       `json:"attendees"`
	Notes     string    `json:"notes"`

	ContractID uint      `gorm:"uniqueIndex;not null" json:"contract_id"`
	Contract   *Contract `json:"contract,omitempty"`

	SupportContactID *uint         `gorm:"index" json:"support_contact_id,omitempty"`
	SupportContact   *Collaborator `json:"support_contact,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate enforces the date and attendee invariants.
func (e *Event) Validate() error {
	if e.Name == "" {
		return Invalidf("event name is required")
	}
	if e.DateStart.IsZero() || e.DateEnd.IsZero() {
		return Invalidf("event start and end dates are required")
	}
	if e.DateEnd.Before(e.DateStart) {
		return Invalidf("event end date is before its start date")
	}
	if e.Attendees < 0 {
		return Invalidf("attendee count cannot be negative")
	}
	if e.ContractID == 0 {
		return Invalidf("event must reference a contract")
	}
	return nil
}

// Assigned reports whether a support contact has been set.
func (e *Event) Assigned() bool {
	return e.SupportContactID != nil
}
