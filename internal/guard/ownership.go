package guard

import "epicrm/internal/models"

// Ownership rules. These run after Authorize, on the collaborator it
// returned: the allowlist says which departments may attempt an operation,
// ownership says which records a given member may touch. Management always
// bypasses ownership.

// CanManageClient reports whether actor may mutate the client: its assigned
// commercial, or management.
func CanManageClient(actor *models.Collaborator, c *models.Client) bool {
	return actor.IsManagement() || c.CommercialContactID == actor.ID
}

// CanManageContract reports whether actor may mutate the contract: its
// sales contact, or management.
func CanManageContract(actor *models.Collaborator, c *models.Contract) bool {
	return actor.IsManagement() || c.SalesContactID == actor.ID
}

// CanManageEvent reports whether actor may mutate the event. Management may
// touch any event; a support collaborator only the events assigned to them.
// Unassigned events are readable by support for assignment purposes but
// mutable by management alone.
func CanManageEvent(actor *models.Collaborator, e *models.Event) bool {
	if actor.IsManagement() {
		return true
	}
	return e.SupportContactID != nil && *e.SupportContactID == actor.ID
}
