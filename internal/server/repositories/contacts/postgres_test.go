package contacts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/signdesk/signdesk/internal/common"
	"github.com/signdesk/signdesk/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"created_at"}).AddRow(now)
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+contacts`).
		WithArgs("c-1", "u-1", "Bob", "bob@example.com", "", "Acme", "reviewer").
		WillReturnRows(rows)

	c := &models.Contact{ID: "c-1", OwnerID: "u-1", Name: "Bob",
		Email: "bob@example.com", Organization: "Acme", Role: "reviewer"}
	got, err := repo.Create(context.Background(), c)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "c-1" || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected contact: %+v", got)
	}
}

func TestListByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "owner_id", "name", "email", "phone", "organization", "role", "created_at"}).
		AddRow("c-1", "u-1", "Bob", "bob@example.com", "", "", "", now).
		AddRow("c-2", "u-1", "Carol", "carol@example.com", "", "", "", now)
	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+contacts\s+WHERE\s+owner_id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Bob" || got[1].Name != "Carol" {
		t.Fatalf("unexpected contacts: %+v", got)
	}
}

func TestListByOwner_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "owner_id", "name", "email", "phone", "organization", "role", "created_at"})
	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+contacts`).
		WithArgs("u-2").
		WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), "u-2")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no contacts, got %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*WHERE\s+id\s*=\s*\$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+contacts\s+SET\s+name\s*=\s*\$3.*WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2`).
		WithArgs("c-1", "u-1", "Bob B", "bob@example.com", "+1555", "Acme", "reviewer").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Contact{
		ID: "c-1", OwnerID: "u-1", Name: "Bob B", Email: "bob@example.com",
		Phone: "+1555", Organization: "Acme", Role: "reviewer",
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

func TestUpdate_WrongOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+contacts\s+SET\s+name\s*=\s*\$3`).
		WithArgs("c-1", "u-2", "Bob B", "bob@example.com", "", "", "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Contact{
		ID: "c-1", OwnerID: "u-2", Name: "Bob B", Email: "bob@example.com",
	})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+contacts\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2`).
		WithArgs("c-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "c-1", "u-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_WrongOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+contacts`).
		WithArgs("c-1", "u-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "c-1", "u-2")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
