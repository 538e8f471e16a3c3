// Package guard enforces the two authorization layers: a coarse department
// allowlist checked here, and fine per-record ownership rules applied by the
// caller with the collaborator this package returns. Collapsing the layers
// would lose the "management can override, a peer cannot" semantic.
package guard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"epicrm/internal/auth"
	"epicrm/internal/models"
)

// ErrUnknownSubject means the token verified but its subject no longer
// exists or has no department. That is a data-integrity problem, surfaced
// distinctly from a plain permission refusal.
var ErrUnknownSubject = errors.New("collaborator or department not found")

// ForbiddenError is returned when the subject is known but the department
// allowlist or an ownership rule refuses the operation. When Allowed is set
// the message enumerates the departments that may perform the action.
type ForbiddenError struct {
	Allowed []models.DepartmentCode
	Reason  string
}

func (e *ForbiddenError) Error() string {
	if e.Reason != "" {
		return "access denied: " + e.Reason
	}
	names := make([]string, len(e.Allowed))
	for i, d := range e.Allowed {
		names[i] = string(d)
	}
	return fmt.Sprintf("access denied: this action is reserved for department(s): %s", strings.Join(names, ", "))
}

// Forbiddenf builds an ownership refusal with a caller-supplied reason.
func Forbiddenf(format string, args ...any) error {
	return &ForbiddenError{Reason: fmt.Sprintf(format, args...)}
}

// Guard resolves tokens to collaborators and applies department allowlists.
type Guard struct {
	db     *gorm.DB
	tokens *auth.TokenService
}

// New builds a guard over the collaborator store and the token service.
func New(db *gorm.DB, tokens *auth.TokenService) *Guard {
	return &Guard{db: db, tokens: tokens}
}

// Authorize verifies the token, loads its collaborator with department, and
// checks membership in the allowed set. An empty allowed set means any
// authenticated collaborator passes; ownership checks remain the caller's
// job either way.
//
// Failures: auth.ErrInvalidToken / auth.ErrExpiredToken from verification,
// ErrUnknownSubject for a missing collaborator or department, *ForbiddenError
// for an allowlist miss.
func (g *Guard) Authorize(ctx context.Context, token string, allowed ...models.DepartmentCode) (*models.Collaborator, error) {
	id, err := g.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	var col models.Collaborator
	err = g.db.WithContext(ctx).Preload("Department").First(&col, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("load collaborator: %w", err)
	}
	if col.Department == nil {
		return nil, ErrUnknownSubject
	}

	if len(allowed) > 0 {
		ok := false
		for _, d := range allowed {
			if col.Department.Code == d {
				ok = true
				break
			}
		}
		if !ok {
			return nil, &ForbiddenError{Allowed: allowed}
		}
	}
	return &col, nil
}
