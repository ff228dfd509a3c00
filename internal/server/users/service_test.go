package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/signdesk/signdesk/internal/common"
	"github.com/signdesk/signdesk/internal/dbx"
	"github.com/signdesk/signdesk/internal/models"
	"github.com/signdesk/signdesk/internal/server/auth"
	"github.com/signdesk/signdesk/internal/server/config"
	contactsrepo "github.com/signdesk/signdesk/internal/server/repositories/contacts"
	usersrepo "github.com/signdesk/signdesk/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User

	adminExists bool
	adminErr    error

	created   []*models.User
	createErr error
	updateErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) error {
	return f.updateErr
}

func (f *fakeUsersRepo) AdminExists(ctx context.Context) (bool, error) {
	return f.adminExists, f.adminErr
}

type fakeRepoManager struct {
	users usersrepo.Repository
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return f.users }
func (f *fakeRepoManager) Contacts(db dbx.DBTX) contactsrepo.Repository {
	return nil
}

type fakeBlacklist struct {
	entries map[string]time.Duration
	addErr  error
}

func (f *fakeBlacklist) Add(ctx context.Context, hash string, ttl time.Duration) error {
	if f.addErr != nil {
		return f.addErr
	}
	if f.entries == nil {
		f.entries = map[string]time.Duration{}
	}
	f.entries[hash] = ttl
	return nil
}

func (f *fakeBlacklist) Contains(ctx context.Context, hash string) (bool, error) {
	_, ok := f.entries[hash]
	return ok, nil
}

func newService(t *testing.T, repo *fakeUsersRepo, bl *fakeBlacklist) *Service {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
	}
	return NewService(newSQLMockDB(t), &fakeRepoManager{users: repo}, bl, cfg)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	return string(h)
}

// --- tests ---

func TestRegister_Success(t *testing.T) {
	repo := &fakeUsersRepo{}
	svc := newService(t, repo, &fakeBlacklist{})

	u, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if u.Role != common.RoleUser {
		t.Fatalf("expected role user, got %q", u.Role)
	}
	if u.ID == "" || u.PasswordHash == "pw" {
		t.Fatalf("expected generated id and hashed password: %+v", u)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &fakeUsersRepo{byEmail: map[string]*models.User{
		"alice@example.com": {ID: "u-1", Email: "alice@example.com"},
	}}
	svc := newService(t, repo, &fakeBlacklist{})

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pw")
	if !errors.Is(err, common.ErrorLoginAlreadyExists) {
		t.Fatalf("expected ErrorLoginAlreadyExists, got %v", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc := newService(t, &fakeUsersRepo{}, &fakeBlacklist{})

	_, err := svc.Register(context.Background(), "", "alice@example.com", "pw")
	if !errors.Is(err, common.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestSetupAdmin_First(t *testing.T) {
	repo := &fakeUsersRepo{}
	svc := newService(t, repo, &fakeBlacklist{})

	u, err := svc.SetupAdmin(context.Background(), "Root", "root@example.com", "pw")
	if err != nil {
		t.Fatalf("SetupAdmin error: %v", err)
	}
	if u.Role != common.RoleAdmin {
		t.Fatalf("expected role admin, got %q", u.Role)
	}
}

func TestSetupAdmin_AlreadyExists(t *testing.T) {
	repo := &fakeUsersRepo{adminExists: true}
	svc := newService(t, repo, &fakeBlacklist{})

	_, err := svc.SetupAdmin(context.Background(), "Root", "root@example.com", "pw")
	if !errors.Is(err, common.ErrorAdminAlreadyExists) {
		t.Fatalf("expected ErrorAdminAlreadyExists, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	repo := &fakeUsersRepo{byEmail: map[string]*models.User{
		"alice@example.com": {
			ID:           "u-1",
			Email:        "alice@example.com",
			PasswordHash: mustHash(t, "pw"),
			Role:         common.RoleUser,
		},
	}}
	svc := newService(t, repo, &fakeBlacklist{})

	token, p, err := svc.Login(context.Background(), "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if p.ID != "u-1" || p.Email != "alice@example.com" {
		t.Fatalf("unexpected principal: %+v", p)
	}

	got, err := auth.PrincipalFromToken(token, []byte("k"))
	if err != nil {
		t.Fatalf("token does not parse back: %v", err)
	}
	if got != p {
		t.Fatalf("principal mismatch: %+v vs %+v", got, p)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := &fakeUsersRepo{byEmail: map[string]*models.User{
		"alice@example.com": {ID: "u-1", Email: "alice@example.com", PasswordHash: mustHash(t, "pw")},
	}}
	svc := newService(t, repo, &fakeBlacklist{})

	_, _, err := svc.Login(context.Background(), "alice@example.com", "nope")
	if !errors.Is(err, common.ErrorInvalidLoginPassword) {
		t.Fatalf("expected ErrorInvalidLoginPassword, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newService(t, &fakeUsersRepo{}, &fakeBlacklist{})

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "pw")
	if !errors.Is(err, common.ErrorInvalidLoginPassword) {
		t.Fatalf("expected ErrorInvalidLoginPassword, got %v", err)
	}
}

func TestLogoutThenValidate_Revoked(t *testing.T) {
	repo := &fakeUsersRepo{byEmail: map[string]*models.User{
		"alice@example.com": {ID: "u-1", Email: "alice@example.com", PasswordHash: mustHash(t, "pw")},
	}}
	bl := &fakeBlacklist{}
	svc := newService(t, repo, bl)

	token, _, err := svc.Login(context.Background(), "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if _, err := svc.ValidateToken(context.Background(), token); err != nil {
		t.Fatalf("ValidateToken before logout: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout error: %v", err)
	}

	_, err = svc.ValidateToken(context.Background(), token)
	if !errors.Is(err, common.ErrorTokenRevoked) {
		t.Fatalf("expected ErrorTokenRevoked, got %v", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newService(t, &fakeUsersRepo{}, &fakeBlacklist{})

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	if !errors.Is(err, common.ErrorInvalidToken) {
		t.Fatalf("expected ErrorInvalidToken, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := &fakeUsersRepo{byID: map[string]*models.User{
		"u-1": {ID: "u-1", Name: "Alice", Email: "alice@example.com"},
	}}
	svc := newService(t, repo, &fakeBlacklist{})

	u, err := svc.UpdateProfile(context.Background(),
		models.Principal{ID: "u-1", Email: "alice@example.com"}, "Alice B", "+1555", "Acme")
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if u.Name != "Alice B" || u.Phone != "+1555" || u.Organization != "Acme" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestUpdateProfile_EmptyName(t *testing.T) {
	svc := newService(t, &fakeUsersRepo{}, &fakeBlacklist{})

	_, err := svc.UpdateProfile(context.Background(), models.Principal{ID: "u-1"}, "", "", "")
	if !errors.Is(err, common.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}
