// Package users implements the identity provider: registration, the one-off
// admin setup, credential login, and token lifecycle including the logout
// blacklist.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/signdesk/signdesk/internal/common"
	"github.com/signdesk/signdesk/internal/models"
	"github.com/signdesk/signdesk/internal/server/auth"
	"github.com/signdesk/signdesk/internal/server/cache"
	"github.com/signdesk/signdesk/internal/server/config"
	"github.com/signdesk/signdesk/internal/server/repositories/repomanager"
)

// Service provides authentication-related operations:
//   - Register / SetupAdmin: create accounts
//   - Login: verify credentials and mint an access token
//   - Logout: revoke a token until it expires
//   - ValidateToken: middleware entry point, blacklist-aware
type Service struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	blacklist                   cache.Blacklist
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewService(db *sql.DB, m repomanager.RepositoryManager, bl cache.Blacklist, cfg *config.Config) *Service {
	return &Service{
		db:                          db,
		repomanager:                 m,
		blacklist:                   bl,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a regular user account. Email collisions surface as
// ErrorLoginAlreadyExists regardless of the underlying constraint error.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.create(ctx, name, email, password, common.RoleUser)
}

// SetupAdmin creates the single administrator account. At most one admin can
// ever exist; a second attempt fails with ErrorAdminAlreadyExists.
func (s *Service) SetupAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	exists, err := repo.AdminExists(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if exists {
		return nil, common.ErrorAdminAlreadyExists
	}
	return s.create(ctx, name, email, password, common.RoleAdmin)
}

func (s *Service) create(ctx context.Context, name, email, password, role string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", common.ErrValidationFailed)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorLoginAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	created, err := repo.Create(ctx, user)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return created, nil
}

// Login verifies the credentials and returns a signed access token together
// with the authenticated principal. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, models.Principal, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", models.Principal{}, common.ErrorInvalidLoginPassword
		}
		return "", models.Principal{}, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", models.Principal{}, common.ErrorInvalidLoginPassword
	}

	p := models.Principal{ID: user.ID, Email: user.Email, Role: user.Role}
	token, err := auth.GenerateToken(p, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", models.Principal{}, common.ErrorInternal
	}
	return token, p, nil
}

// Logout blacklists the token hash for the remainder of its validity. An
// already-expired token is accepted; logging out twice is harmless.
func (s *Service) Logout(ctx context.Context, token string) error {
	expires, err := auth.ExpiresAt(token, s.jwtSecret)
	if err != nil {
		return common.ErrorInvalidToken
	}
	return s.blacklist.Add(ctx, auth.HashToken(token), time.Until(expires))
}

// ValidateToken parses the token, checks the blacklist and returns the
// principal. Revoked tokens yield ErrorTokenRevoked.
func (s *Service) ValidateToken(ctx context.Context, token string) (models.Principal, error) {
	p, err := auth.PrincipalFromToken(token, s.jwtSecret)
	if err != nil {
		return models.Principal{}, common.ErrorInvalidToken
	}

	revoked, err := s.blacklist.Contains(ctx, auth.HashToken(token))
	if err != nil {
		return models.Principal{}, common.ErrorInternal
	}
	if revoked {
		return models.Principal{}, common.ErrorTokenRevoked
	}
	return p, nil
}

// Profile returns the stored account for the principal.
func (s *Service) Profile(ctx context.Context, principal models.Principal) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, principal.ID)
}

// UpdateProfile changes the mutable account fields (name, phone,
// organization). Email and role are fixed at creation.
func (s *Service) UpdateProfile(ctx context.Context, principal models.Principal, name, phone, organization string) (*models.User, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrValidationFailed)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Phone = phone
	user.Organization = organization
	if err := repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
