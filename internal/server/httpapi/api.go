// Package httpapi exposes the service layer as a JSON API under /api/v1.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/signdesk/signdesk/internal/common"
	"github.com/signdesk/signdesk/internal/logging"
	"github.com/signdesk/signdesk/internal/models"
	"github.com/signdesk/signdesk/internal/server/documents"
	"github.com/signdesk/signdesk/internal/signing"
)

// UserService is the slice of the identity provider the API needs.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	SetupAdmin(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, models.Principal, error)
	Logout(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) (models.Principal, error)
	Profile(ctx context.Context, principal models.Principal) (*models.User, error)
	UpdateProfile(ctx context.Context, principal models.Principal, name, phone, organization string) (*models.User, error)
}

// ContactService is the slice of the address book the API needs.
type ContactService interface {
	Create(ctx context.Context, principal models.Principal, contact models.Contact) (*models.Contact, error)
	List(ctx context.Context, principal models.Principal) ([]*models.Contact, error)
	Get(ctx context.Context, principal models.Principal, id string) (*models.Contact, error)
	Update(ctx context.Context, principal models.Principal, id string, contact models.Contact) (*models.Contact, error)
	Delete(ctx context.Context, principal models.Principal, id string) error
}

// DocumentService is the slice of the document layer the API needs.
type DocumentService interface {
	Upload(ctx context.Context, principal models.Principal, in documents.UploadInput) (models.Document, error)
	List(principal models.Principal) []models.Document
	Get(principal models.Principal, id string) (models.Document, error)
	Share(ctx context.Context, principal models.Principal, id, targetEmail string) error
	Delete(ctx context.Context, principal models.Principal, id string) error
	RequestChallenge(ctx context.Context, principal models.Principal, docID string, method signing.Method, idNumber string) error
	Sign(ctx context.Context, principal models.Principal, docID string, in documents.SignInput) (models.Document, error)
}

type API struct {
	users     UserService
	contacts  ContactService
	documents DocumentService
	log       logging.Logger
}

func NewAPI(users UserService, contacts ContactService, docs DocumentService, log logging.Logger) *API {
	return &API{
		users:     users,
		contacts:  contacts,
		documents: docs,
		log:       log.With("component", "httpapi"),
	}
}

// Router builds the chi router with the public auth endpoints and the
// token-protected application surface.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", a.handleRegister)
		r.Post("/auth/login", a.handleLogin)
		r.Post("/setup/admin", a.handleSetupAdmin)

		r.Group(func(r chi.Router) {
			r.Use(a.authRequired)

			r.Post("/auth/logout", a.handleLogout)

			r.Get("/documents", a.handleListDocuments)
			r.Post("/documents", a.handleUploadDocument)
			r.Get("/documents/{id}", a.handleGetDocument)
			r.Delete("/documents/{id}", a.handleDeleteDocument)
			r.Post("/documents/{id}/share", a.handleShareDocument)
			r.Post("/documents/{id}/sign/challenge", a.handleSignChallenge)
			r.Post("/documents/{id}/sign", a.handleSign)

			r.Get("/contacts", a.handleListContacts)
			r.Post("/contacts", a.handleCreateContact)
			r.Get("/contacts/{id}", a.handleGetContact)
			r.Put("/contacts/{id}", a.handleUpdateContact)
			r.Delete("/contacts/{id}", a.handleDeleteContact)

			r.Get("/profile", a.handleGetProfile)
			r.Put("/profile", a.handleUpdateProfile)
		})
	})

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.log.Error(context.Background(), "response encoding failed", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Validation problems
// are the only class whose message reaches the client verbatim.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrValidationFailed),
		errors.Is(err, common.ErrIdentityFormatInvalid),
		errors.Is(err, common.ErrCorruptAttachment),
		errors.Is(err, signing.ErrInvalidTransition):
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrorInvalidToken),
		errors.Is(err, common.ErrorTokenRevoked),
		errors.Is(err, common.ErrorInvalidLoginPassword):
		a.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrorUnauthorized):
		a.writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, common.ErrorNotFound):
		a.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrorLoginAlreadyExists),
		errors.Is(err, common.ErrorAdminAlreadyExists):
		a.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		a.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		a.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}
