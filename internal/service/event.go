package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"epicrm/internal/guard"
	"epicrm/internal/models"
	"epicrm/internal/repository"
)

// EventService manages events. A commercial creates the event for their own
// signed contract; support runs the events assigned to them; management
// assigns support contacts and may touch anything.
type EventService struct {
	db    *gorm.DB
	guard *guard.Guard
	lg    *zap.SugaredLogger
}

func NewEventService(db *gorm.DB, g *guard.Guard, lg *zap.SugaredLogger) *EventService {
	return &EventService{db: db, guard: g, lg: lg}
}

type CreateEventInput struct {
	ContractID uint      `json:"contract_id"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	DateStart  time.Time `json:"date_start"`
	DateEnd    time.Time `json:"date_end"`
	Attendees  int       `json:"attendees"`
	Notes      string    `json:"notes"`
}

// Create opens an event for a signed contract. The contract must belong to
// the calling commercial, be signed, and have no event yet.
func (s *EventService) Create(ctx context.Context, token string, in CreateEventInput) (*models.Event, error) {
	actor, err := s.guard.Authorize(ctx, token, models.DeptSales, models.DeptManagement)
	if err != nil {
		return nil, err
	}
	var event models.Event
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contract, err := repository.New[models.Contract](tx).ByID(ctx, in.ContractID)
		if err != nil {
			return err
		}
		if !guard.CanManageContract(actor, contract) {
			return guard.Forbiddenf("contract %d belongs to another sales contact", in.ContractID)
		}
		if !contract.Signed {
			return models.Invalidf("contract %d is not signed; events require a signed contract", in.ContractID)
		}
		repo := repository.New[models.Event](tx)
		if _, err := repo.ByField(ctx, "contract_id", in.ContractID); err == nil {
			return models.Invalidf("contract %d already has an event", in.ContractID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		event = models.Event{
			Name:       in.Name,
			Location:   in.Location,
			DateStart:  in.DateStart,
			DateEnd:    in.DateEnd,
			Attendees:  in.Attendees,
			Notes:      in.Notes,
			ContractID: contract.ID,
		}
		if err := event.Validate(); err != nil {
			return err
		}
		return repo.Create(ctx, &event)
	})
	if err != nil {
		return nil, err
	}
	s.lg.Infow("event created", "event_id", event.ID, "contract_id", in.ContractID, "by", actor.ID)
	return &event, nil
}

type UpdateEventInput struct {
	Name      *string    `json:"name"`
	Location  *string    `json:"location"`
	DateStart *time.Time `json:"date_start"`
	DateEnd   *time.Time `json:"date_end"`
	Attendees *int       `json:"attendees"`
	Notes     *string    `json:"notes"`
}

// Update patches an event. Support may edit only the events assigned to
// them; management may edit any, including unassigned ones.
func (s *EventService) Update(ctx context.Context, token string, id uint, in UpdateEventInput) (*models.Event, error) {
	actor, err := s.guard.Authorize(ctx, token, models.DeptSupport, models.DeptManagement)
	if err != nil {
		return nil, err
	}
	var event *models.Event
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.New[models.Event](tx)
		event, err = repo.ByID(ctx, id)
		if err != nil {
			return err
		}
		if !guard.CanManageEvent(actor, event) {
			return guard.Forbiddenf("event %d is not assigned to you", id)
		}
		if in.Name != nil {
			event.Name = *in.Name
		}
		if in.Location != nil {
			event.Location = *in.Location
		}
		if in.DateStart != nil {
			event.DateStart = *in.DateStart
		}
		if in.DateEnd != nil {
			event.DateEnd = *in.DateEnd
		}
		if in.Attendees != nil {
			event.Attendees = *in.Attendees
		}
		if in.Notes != nil {
			event.Notes = *in.Notes
		}
		if err := event.Validate(); err != nil {
			return err
		}
		return repo.Save(ctx, event)
	})
	if err != nil {
		return nil, err
	}
	s.lg.Infow("event updated", "event_id", id, "by", actor.ID)
	return event, nil
}

// AssignSupport sets the support contact of an event. Management only, and
// the target collaborator must belong to the support department.
func (s *EventService) AssignSupport(ctx context.Context, token string, eventID, supportID uint) (*models.Event, error) {
	actor, err := s.guard.Authorize(ctx, token, models.DeptManagement)
	if err != nil {
		return nil, err
	}
	var event *models.Event
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.New[models.Event](tx)
		event, err = repo.ByID(ctx, eventID)
		if err != nil {
			return err
		}
		target, err := repository.New[models.Collaborator](tx).ByID(ctx, supportID, "Department")
		if err != nil {
			return err
		}
		if !target.In(models.DeptSupport) {
			return models.Invalidf("collaborator %d is not in the support department", supportID)
		}
		event.SupportContactID = &target.ID
		return repo.Save(ctx, event)
	})
	if err != nil {
		return nil, err
	}
	s.lg.Infow("support assigned", "event_id", eventID, "support_contact_id", supportID, "by", actor.ID)
	return event, nil
}

// List returns all events. Any authenticated collaborator may read them.
func (s *EventService) List(ctx context.Context, token string) ([]models.Event, error) {
	if _, err := s.guard.Authorize(ctx, token); err != nil {
		return nil, err
	}
	return repository.New[models.Event](s.db).List(ctx)
}

// ListUnassigned returns events without a support contact. Support and
// management both see this queue, so assignments can be planned.
func (s *EventService) ListUnassigned(ctx context.Context, token string) ([]models.Event, error) {
	if _, err := s.guard.Authorize(ctx, token, models.DeptSupport, models.DeptManagement); err != nil {
		return nil, err
	}
	return repository.New[models.Event](s.db).List(ctx, "support_contact_id IS NULL")
}

// ListMine returns the events assigned to the calling support collaborator.
func (s *EventService) ListMine(ctx context.Context, token string) ([]models.Event, error) {
	actor, err := s.guard.Authorize(ctx, token, models.DeptSupport)
	if err != nil {
		return nil, err
	}
	return repository.New[models.Event](s.db).List(ctx, "support_contact_id = ?", actor.ID)
}
