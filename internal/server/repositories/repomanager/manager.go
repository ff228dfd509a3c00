package repomanager

import (
	"context"
	"database/sql"

	"github.com/signdesk/signdesk/internal/dbx"
	"github.com/signdesk/signdesk/internal/server/repositories/contacts"
	"github.com/signdesk/signdesk/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Contacts(db dbx.DBTX) contacts.Repository
}
