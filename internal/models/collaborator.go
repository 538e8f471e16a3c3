package models

import (
	"strings"
	"time"

	"epicrm/internal/auth"
)

// Collaborator is the root identity: every client, contract and event is
// owned by one.
type Collaborator struct {
	ID           uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string      `gorm:"not null" json:"first_name"`
	LastName     string      `gorm:"not null" json:"last_name"`
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	DepartmentID uint        `gorm:"not null;index" json:"department_id"`
	Department   *Department `json:"department,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// SetPassword hashes and stores a new password.
func (c *Collaborator) SetPassword(plain string) error {
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return err
	}
	c.PasswordHash = hash
	return nil
}

// FullName joins the name parts for display.
func (c *Collaborator) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// In reports whether the collaborator belongs to the given department. A
// collaborator whose department was never loaded or assigned belongs to
// nothing.
func (c *Collaborator) In(code DepartmentCode) bool {
	return c.Department != nil && c.Department.Code == code
}

// IsManagement is the bypass check used by every ownership rule.
func (c *Collaborator) IsManagement() bool {
	return c.In(DeptManagement)
}
