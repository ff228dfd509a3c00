// Package contacts implements the per-user address book used to pick signers
// and share targets.
package contacts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/signdesk/signdesk/internal/common"
	"github.com/signdesk/signdesk/internal/models"
	"github.com/signdesk/signdesk/internal/server/repositories/repomanager"
)

type Service struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewService(db *sql.DB, m repomanager.RepositoryManager) *Service {
	return &Service{db: db, repomanager: m}
}

// Create adds a contact to the principal's address book.
func (s *Service) Create(ctx context.Context, principal models.Principal, contact models.Contact) (*models.Contact, error) {
	if contact.Name == "" || contact.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", common.ErrValidationFailed)
	}

	contact.ID = uuid.NewString()
	contact.OwnerID = principal.ID

	created, err := s.repomanager.Contacts(s.db).Create(ctx, &contact)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return created, nil
}

// List returns the principal's contacts ordered by name.
func (s *Service) List(ctx context.Context, principal models.Principal) ([]*models.Contact, error) {
	list, err := s.repomanager.Contacts(s.db).ListByOwner(ctx, principal.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Get returns a single contact. Contacts belonging to someone else are
// reported as missing, not forbidden.
func (s *Service) Get(ctx context.Context, principal models.Principal, id string) (*models.Contact, error) {
	c, err := s.repomanager.Contacts(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != principal.ID {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

// Update rewrites the mutable fields of the principal's contact. The owner
// check happens in the repository query; someone else's contact is reported
// as missing.
func (s *Service) Update(ctx context.Context, principal models.Principal, id string, contact models.Contact) (*models.Contact, error) {
	if contact.Name == "" || contact.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", common.ErrValidationFailed)
	}

	contact.ID = id
	contact.OwnerID = principal.ID

	repo := s.repomanager.Contacts(s.db)
	if err := repo.Update(ctx, &contact); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

// Delete removes the principal's contact. The owner check happens in the
// repository query.
func (s *Service) Delete(ctx context.Context, principal models.Principal, id string) error {
	return s.repomanager.Contacts(s.db).Delete(ctx, id, principal.ID)
}
