// Package service implements the command handlers: every mutating operation
// resolves the caller through the guard, applies the per-record ownership
// rule, validates invariants, and commits inside one transaction.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"epicrm/internal/auth"
	"epicrm/internal/guard"
	"epicrm/internal/models"
	"epicrm/internal/repository"
)

// ErrInvalidCredentials is returned by Authenticate for a bad email or
// password, without saying which.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CollaboratorService manages the internal staff. All mutations are
// reserved for the management department.
type CollaboratorService struct {
	db     *gorm.DB
	guard  *guard.Guard
	tokens *auth.TokenService
	lg     *zap.SugaredLogger
}

func NewCollaboratorService(db *gorm.DB, g *guard.Guard, tokens *auth.TokenService, lg *zap.SugaredLogger) *CollaboratorService {
	return &CollaboratorService{db: db, guard: g, tokens: tokens, lg: lg}
}

// Authenticate checks email and password and issues an identity token.
func (s *CollaboratorService) Authenticate(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var col models.Collaborator
	if err := s.db.WithContext(ctx).First(&col, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("load collaborator: %w", err)
	}
	if !auth.CheckPassword(password, col.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(col.ID)
	if err != nil {
		return "", err
	}
	s.lg.Infow("collaborator authenticated", "collaborator_id", col.ID)
	return token, nil
}

type CreateCollaboratorInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
}

// Create registers a new collaborator in the given department.
func (s *CollaboratorService) Create(ctx context.Context, token string, in CreateCollaboratorInput) (*models.Collaborator, error) {
	actor, err := s.guard.Authorize(ctx, token, models.DeptManagement)
	if err != nil {
		return nil, err
	}
	code, err := models.ParseDepartment(in.Department)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, models.Invalidf("collaborator email and password are required")
	}

	col := models.Collaborator{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
	}
	if col.FirstName == "" || col.LastName == "" {
		return nil, models.Invalidf("collaborator first and last name are required")
	}
	if err := col.SetPassword(in.Password); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dept models.Department
		if err := tx.First(&dept, "code = ?", code).Error; err != nil {
			return fmt.Errorf("load department: %w", err)
		}
		col.DepartmentID = dept.ID
		col.Department = &dept

		n, err := repository.New[models.Collaborator](tx).Count(ctx, "email = ?", email)
		if err != nil {
			return err
		}
		if n > 0 {
			return models.Invalidf("a collaborator with email %s already exists", email)
		}
		return repository.New[models.Collaborator](tx).Create(ctx, &col)
	})
	if err != nil {
		return nil, err
	}
	s.lg.Infow("collaborator created", "collaborator_id", col.ID, "department", code, "by", actor.ID)
	return &col, nil
}

type UpdateCollaboratorInput struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	Department *string `json:"department"`
}

// Update patches a collaborator. Management only.
func (s *CollaboratorService) Update(ctx context.Context, token string, id uint, in UpdateCollaboratorInput) (*models.Collaborator, error) {
	actor, err := s.guard.Authorize(ctx, token, models.DeptManagement)
	if err != nil {
		return nil, err
	}
	var col *models.Collaborator
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.New[models.Collaborator](tx)
		col, err = repo.ByID(ctx, id, "Department")
		if err != nil {
			return err
		}
		if in.FirstName != nil {
			col.FirstName = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil {
			col.LastName = strings.TrimSpace(*in.LastName)
		}
		if in.Email != nil {
			col.Email = strings.ToLower(strings.TrimSpace(*in.Email))
			n, err := repo.Count(ctx, "email = ? AND id <> ?", col.Email, col.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return models.Invalidf("a collaborator with email %s already exists", col.Email)
			}
		}
		if in.Password != nil && *in.Password != "" {
			if err := col.SetPassword(*in.Password); err != nil {
				return err
			}
		}
		if in.Department != nil {
			code, err := models.ParseDepartment(*in.Department)
			if err != nil {
				return err
			}
			var dept models.Department
			if err := tx.First(&dept, "code = ?", code).Error; err != nil {
				return fmt.Errorf("load department: %w", err)
			}
			col.DepartmentID = dept.ID
			col.Department = &dept
		}
		return repo.Save(ctx, col)
	})
	if err != nil {
		return nil, err
	}
	s.lg.Infow("collaborator updated", "collaborator_id", id, "by", actor.ID)
	return col, nil
}

// Delete removes a collaborator. Deletion is restricted, not cascaded:
// while the collaborator still owns clients, contracts or events the call
// fails and management has to reassign first.
func (s *CollaboratorService) Delete(ctx context.Context, token string, id uint) error {
	actor, err := s.guard.Authorize(ctx, token, models.DeptManagement)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.New[models.Collaborator](tx)
		col, err := repo.ByID(ctx, id)
		if err != nil {
			return err
		}
		if n, err := repository.New[models.Client](tx).Count(ctx, "commercial_contact_id = ?", id); err != nil {
			return err
		} else if n > 0 {
			return models.Invalidf("collaborator %d still owns %d client(s); reassign them first", id, n)
		}
		if n, err := repository.New[models.Contract](tx).Count(ctx, "sales_contact_id = ?", id); err != nil {
			return err
		} else if n > 0 {
			return models.Invalidf("collaborator %d is still sales contact on %d contract(s); reassign them first", id, n)
		}
		if n, err := repository.New[models.Event](tx).Count(ctx, "support_contact_id = ?", id); err != nil {
			return err
		} else if n > 0 {
			return models.Invalidf("collaborator %d is still support contact on %d event(s); reassign them first", id, n)
		}
		return repo.Delete(ctx, col)
	})
	if err != nil {
		return err
	}
	s.lg.Infow("collaborator deleted", "collaborator_id", id, "by", actor.ID)
	return nil
}

// List returns all collaborators with their departments. Any authenticated
// collaborator may read the directory.
func (s *CollaboratorService) List(ctx context.Context, token string) ([]models.Collaborator, error) {
	if _, err := s.guard.Authorize(ctx, token); err != nil {
		return nil, err
	}
	var cols []models.Collaborator
	if err := s.db.WithContext(ctx).Preload("Department").Order("id").Find(&cols).Error; err != nil {
		return nil, err
	}
	return cols, nil
}
