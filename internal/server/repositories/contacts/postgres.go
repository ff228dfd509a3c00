package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/signdesk/signdesk/internal/common"
	"github.com/signdesk/signdesk/internal/dbx"
	"github.com/signdesk/signdesk/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {

	query :=
		`INSERT INTO contacts (id, owner_id, name, email, phone, organization, role)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		contact.ID, contact.OwnerID, contact.Name, contact.Email,
		contact.Phone, contact.Organization, contact.Role).
		Scan(&contact.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return contact, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Contact, error) {
	query :=
		`SELECT id, owner_id, name, email, phone, organization, role, created_at
		 FROM contacts
		 WHERE owner_id = $1
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Contact
	for rows.Next() {
		c := &models.Contact{}
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email,
			&c.Phone, &c.Organization, &c.Role, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	query :=
		`SELECT id, owner_id, name, email, phone, organization, role, created_at
		 FROM contacts
		 WHERE id = $1
		 `

	c := &models.Contact{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone, &c.Organization, &c.Role, &c.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, contact *models.Contact) error {
	query :=
		`UPDATE contacts
		 SET name = $3, email = $4, phone = $5, organization = $6, role = $7
		 WHERE id = $1 AND owner_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query,
		contact.ID, contact.OwnerID, contact.Name, contact.Email,
		contact.Phone, contact.Organization, contact.Role)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string, ownerID string) error {
	query := `DELETE FROM contacts WHERE id = $1 AND owner_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}

	return nil
}
