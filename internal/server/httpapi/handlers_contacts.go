package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/signdesk/signdesk/internal/models"
)

type contactRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
}

func (a *API) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !a.decode(w, r, &req) {
		return
	}

	contact, err := a.contacts.Create(r.Context(), principalFrom(r), models.Contact{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Organization: req.Organization,
		Role:         req.Role,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, contact)
}

func (a *API) handleListContacts(w http.ResponseWriter, r *http.Request) {
	list, err := a.contacts.List(r.Context(), principalFrom(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Contact{}
	}
	a.writeJSON(w, http.StatusOK, list)
}

func (a *API) handleGetContact(w http.ResponseWriter, r *http.Request) {
	contact, err := a.contacts.Get(r.Context(), principalFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, contact)
}

func (a *API) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !a.decode(w, r, &req) {
		return
	}

	contact, err := a.contacts.Update(r.Context(), principalFrom(r), chi.URLParam(r, "id"), models.Contact{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Organization: req.Organization,
		Role:         req.Role,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, contact)
}

func (a *API) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := a.contacts.Delete(r.Context(), principalFrom(r), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}
