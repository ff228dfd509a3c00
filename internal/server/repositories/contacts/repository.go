package contacts

import (
	"context"

	"github.com/signdesk/signdesk/internal/models"
)

type Repository interface {
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Contact, error)
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id string, ownerID string) error
}
