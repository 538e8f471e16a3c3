package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"epicrm/internal/crypto"
	"epicrm/internal/guard"
	"epicrm/internal/models"
	"epicrm/internal/repository"
)

// ClientService manages clients. A client is created by and bound to one
// sales collaborator; only that commercial, or management, may mutate it.
type ClientService struct {
	db    *gorm.DB
	guard *guard.Guard
	codec *crypto.Codec
	lg    *zap.SugaredLogger
}

func NewClientService(db *gorm.DB, g *guard.Guard, codec *crypto.Codec, lg *zap.SugaredLogger) *ClientService {
	return &ClientService{db: db, guard: g, codec: codec, lg: lg}
}

func (s *ClientService) repo(tx *gorm.DB) *repository.Crypto[models.Client] {
	return repository.NewCrypto(repository.New[models.Client](tx), s.codec)
}

type CreateClientInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
}

// Create registers a client owned by the calling commercial.
func (s *ClientService) Create(ctx context.Context, token string, in CreateClientInput) (*models.Client, error) {
	actor, err := s.guard.Authorize(ctx, token, models.DeptSales)
	if err != nil {
		return nil, err
	}
	client := models.Client{
		FirstName:           strings.TrimSpace(in.FirstName),
		LastName:            strings.TrimSpace(in.LastName),
		Email:               strings.TrimSpace(in.Email),
		Phone:               strings.TrimSpace(in.Phone),
		CompanyName:         strings.TrimSpace(in.CompanyName),
		CommercialContactID: actor.ID,
	}
	if err := client.Validate(); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := repository.New[models.Client](tx).Count(ctx, "email_bidx = ?", s.codec.BlindIndex(client.Email))
		if err != nil {
			return err
		}
		if n > 0 {
			return models.Invalidf("a client with this email already exists")
		}
		return s.repo(tx).Create(ctx, &client)
	})
	if err != nil {
		return nil, err
	}
	s.lg.Infow("client created", "client_id", client.ID, "commercial_id", actor.ID)
	return &client, nil
}

type UpdateClientInput struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	CompanyName *string `json:"company_name"`
}

// Update patches a client. The assigned commercial may edit their own
// clients; management may edit any.
func (s *ClientService) Update(ctx context.Context, token string, id uint, in UpdateClientInput) (*models.Client, error) {
	actor, err := s.guard.Authorize(ctx, token, models.DeptSales, models.DeptManagement)
	if err != nil {
		return nil, err
	}
	var client *models.Client
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo(tx)
		client, err = repo.ByID(ctx, id)
		if err != nil {
			return err
		}
		if !guard.CanManageClient(actor, client) {
			return guard.Forbiddenf("client %d is assigned to another commercial", id)
		}
		if in.FirstName != nil {
			client.FirstName = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil {
			client.LastName = strings.TrimSpace(*in.LastName)
		}
		if in.Email != nil {
			client.Email = strings.TrimSpace(*in.Email)
		}
		if in.Phone != nil {
			client.Phone = strings.TrimSpace(*in.Phone)
		}
		if in.CompanyName != nil {
			client.CompanyName = strings.TrimSpace(*in.CompanyName)
		}
		if err := client.Validate(); err != nil {
			return err
		}
		// Email uniqueness rides the blind index: the change must not
		// collide with another client's digest.
		n, err := repository.New[models.Client](tx).Count(ctx, "email_bidx = ? AND id <> ?", s.codec.BlindIndex(client.Email), client.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return models.Invalidf("a client with this email already exists")
		}
		return repo.Save(ctx, client)
	})
	if err != nil {
		return nil, err
	}
	s.lg.Infow("client updated", "client_id", id, "by", actor.ID)
	return client, nil
}

// Delete removes a client. Management only, and only when no contracts
// reference it.
func (s *ClientService) Delete(ctx context.Context, token string, id uint) error {
	actor, err := s.guard.Authorize(ctx, token, models.DeptManagement)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo(tx)
		client, err := repo.ByID(ctx, id)
		if err != nil {
			return err
		}
		if n, err := repository.New[models.Contract](tx).Count(ctx, "client_id = ?", id); err != nil {
			return err
		} else if n > 0 {
			return models.Invalidf("client %d still has %d contract(s)", id, n)
		}
		return repo.Delete(ctx, client)
	})
	if err != nil {
		return err
	}
	s.lg.Infow("client deleted", "client_id", id, "by", actor.ID)
	return nil
}

// List returns every client, decrypted. Any authenticated collaborator may
// read the client book.
func (s *ClientService) List(ctx context.Context, token string) ([]models.Client, error) {
	if _, err := s.guard.Authorize(ctx, token); err != nil {
		return nil, err
	}
	return s.repo(s.db).List(ctx)
}

// ListMine returns the clients assigned to the calling commercial.
func (s *ClientService) ListMine(ctx context.Context, token string) ([]models.Client, error) {
	actor, err := s.guard.Authorize(ctx, token, models.DeptSales)
	if err != nil {
		return nil, err
	}
	return s.repo(s.db).List(ctx, "commercial_contact_id = ?", actor.ID)
}

// FindByEmail looks a client up through the blind index, so the encrypted
// email column never has to be decrypted row by row.
func (s *ClientService) FindByEmail(ctx context.Context, token, email string) (*models.Client, error) {
	if _, err := s.guard.Authorize(ctx, token); err != nil {
		return nil, err
	}
	return s.repo(s.db).ByIndexedField(ctx, "email_bidx", email)
}
