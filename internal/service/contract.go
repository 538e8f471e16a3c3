package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"epicrm/internal/guard"
	"epicrm/internal/models"
	"epicrm/internal/repository"
)

// ContractService manages contracts. Management creates them; the assigned
// sales contact, or management, mutates them. Signing is terminal.
type ContractService struct {
	db    *gorm.DB
	guard *guard.Guard
	lg    *zap.SugaredLogger
	now   func() time.Time
}

func NewContractService(db *gorm.DB, g *guard.Guard, lg *zap.SugaredLogger) *ContractService {
	return &ContractService{db: db, guard: g, lg: lg, now: time.Now}
}

type CreateContractInput struct {
	ClientID    uint    `json:"client_id"`
	Amount      float64 `json:"amount"`
	AlreadyPaid float64 `json:"already_paid"`
	Signed      bool    `json:"signed"`
}

// Create opens a contract for a client. The sales contact is copied from
// the client's assigned commercial; management may reassign it later, so the
// two can diverge afterwards. A contract marked signed at creation gets its
// signed date stamped immediately.
func (s *ContractService) Create(ctx context.Context, token string, in CreateContractInput) (*models.Contract, error) {
	actor, err := s.guard.Authorize(ctx, token, models.DeptManagement)
	if err != nil {
		return nil, err
	}
	if in.AlreadyPaid < 0 {
		return nil, models.Invalidf("already paid amount cannot be negative")
	}
	var contract models.Contract
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := repository.New[models.Client](tx).ByID(ctx, in.ClientID)
		if err != nil {
			return err
		}
		contract = models.Contract{
			Amount:          in.Amount,
			RemainingAmount: in.Amount - in.AlreadyPaid,
			ClientID:        client.ID,
			SalesContactID:  client.CommercialContactID,
		}
		if in.Signed {
			if err := contract.Sign(s.now()); err != nil {
				return err
			}
		}
		if err := contract.Validate(); err != nil {
			return err
		}
		return repository.New[models.Contract](tx).Create(ctx, &contract)
	})
	if err != nil {
		return nil, err
	}
	s.lg.Infow("contract created", "contract_id", contract.ID, "client_id", in.ClientID, "by", actor.ID)
	return &contract, nil
}

type UpdateContractInput struct {
	Amount          *float64 `json:"amount"`
	RemainingAmount *float64 `json:"remaining_amount"`
}

// Update adjusts the contract amounts. The amount invariants are checked
// before commit; violating writes are rejected, never clamped.
func (s *ContractService) Update(ctx context.Context, token string, id uint, in UpdateContractInput) (*models.Contract, error) {
	actor, err := s.guard.Authorize(ctx, token, models.DeptSales, models.DeptManagement)
	if err != nil {
		return nil, err
	}
	var contract *models.Contract
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.New[models.Contract](tx)
		contract, err = repo.ByID(ctx, id)
		if err != nil {
			return err
		}
		if !guard.CanManageContract(actor, contract) {
			return guard.Forbiddenf("contract %d belongs to another sales contact", id)
		}
		if in.Amount != nil {
			contract.Amount = *in.Amount
		}
		if in.RemainingAmount != nil {
			contract.RemainingAmount = *in.RemainingAmount
		}
		if err := contract.Validate(); err != nil {
			return err
		}
		return repo.Save(ctx, contract)
	})
	if err != nil {
		return nil, err
	}
	s.lg.Infow("contract updated", "contract_id", id, "by", actor.ID)
	return contract, nil
}

// Sign transitions a contract to its signed state, once. The assigned sales
// contact or management may sign.
func (s *ContractService) Sign(ctx context.Context, token string, id uint) (*models.Contract, error) {
	actor, err := s.guard.Authorize(ctx, token, models.DeptSales, models.DeptManagement)
	if err != nil {
		return nil, err
	}
	var contract *models.Contract
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.New[models.Contract](tx)
		contract, err = repo.ByID(ctx, id)
		if err != nil {
			return err
		}
		if !guard.CanManageContract(actor, contract) {
			return guard.Forbiddenf("contract %d belongs to another sales contact", id)
		}
		if err := contract.Sign(s.now()); err != nil {
			return err
		}
		return repo.Save(ctx, contract)
	})
	if err != nil {
		return nil, err
	}
	s.lg.Infow("contract signed", "contract_id", id, "by", actor.ID)
	return contract, nil
}

// RecordPayment decrements the remaining amount by a received payment.
func (s *ContractService) RecordPayment(ctx context.Context, token string, id uint, amount float64) (*models.Contract, error) {
	actor, err := s.guard.Authorize(ctx, token, models.DeptSales, models.DeptManagement)
	if err != nil {
		return nil, err
	}
	var contract *models.Contract
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.New[models.Contract](tx)
		contract, err = repo.ByID(ctx, id)
		if err != nil {
			return err
		}
		if !guard.CanManageContract(actor, contract) {
			return guard.Forbiddenf("contract %d belongs to another sales contact", id)
		}
		if err := contract.RecordPayment(amount); err != nil {
			return err
		}
		return repo.Save(ctx, contract)
	})
	if err != nil {
		return nil, err
	}
	s.lg.Infow("payment recorded", "contract_id", id, "amount", amount, "by", actor.ID)
	return contract, nil
}

// ReassignSales moves the contract to another sales collaborator.
// Management only; the target must belong to the sales department.
func (s *ContractService) ReassignSales(ctx context.Context, token string, id, salesContactID uint) (*models.Contract, error) {
	actor, err := s.guard.Authorize(ctx, token, models.DeptManagement)
	if err != nil {
		return nil, err
	}
	var contract *models.Contract
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.New[models.Contract](tx)
		contract, err = repo.ByID(ctx, id)
		if err != nil {
			return err
		}
		target, err := repository.New[models.Collaborator](tx).ByID(ctx, salesContactID, "Department")
		if err != nil {
			return err
		}
		if !target.In(models.DeptSales) {
			return models.Invalidf("collaborator %d is not in the sales department", salesContactID)
		}
		contract.SalesContactID = target.ID
		return repo.Save(ctx, contract)
	})
	if err != nil {
		return nil, err
	}
	s.lg.Infow("contract reassigned", "contract_id", id, "sales_contact_id", salesContactID, "by", actor.ID)
	return contract, nil
}

// List returns all contracts. Any authenticated collaborator may read them.
func (s *ContractService) List(ctx context.Context, token string) ([]models.Contract, error) {
	if _, err := s.guard.Authorize(ctx, token); err != nil {
		return nil, err
	}
	return repository.New[models.Contract](s.db).List(ctx)
}

// ListUnsigned returns contracts still waiting for a signature, a sales and
// management work queue.
func (s *ContractService) ListUnsigned(ctx context.Context, token string) ([]models.Contract, error) {
	if _, err := s.guard.Authorize(ctx, token, models.DeptSales, models.DeptManagement); err != nil {
		return nil, err
	}
	return repository.New[models.Contract](s.db).List(ctx, "signed = ?", false)
}

// ListUnpaid returns contracts with money still owed.
func (s *ContractService) ListUnpaid(ctx context.Context, token string) ([]models.Contract, error) {
	if _, err := s.guard.Authorize(ctx, token, models.DeptSales, models.DeptManagement); err != nil {
		return nil, err
	}
	return repository.New[models.Contract](s.db).List(ctx, "remaining_amount > ?", 0.0)
}
