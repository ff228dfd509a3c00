package httpapi

import (
	"net/http"

	"github.com/signdesk/signdesk/internal/models"
)

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Phone        string `json:"phone,omitempty"`
	Organization string `json:"organization,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Phone:        u.Phone,
		Organization: u.Organization,
	}
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !a.decode(w, r, &req) {
		return
	}

	user, err := a.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (a *API) handleSetupAdmin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !a.decode(w, r, &req) {
		return
	}

	user, err := a.users.SetupAdmin(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !a.decode(w, r, &req) {
		return
	}

	token, principal, err := a.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"email": principal.Email,
		"role":  principal.Role,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.users.Logout(r.Context(), tokenFrom(r)); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := a.users.Profile(r.Context(), principalFrom(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (a *API) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		Phone        string `json:"phone"`
		Organization string `json:"organization"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	user, err := a.users.UpdateProfile(r.Context(), principalFrom(r), req.Name, req.Phone, req.Organization)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toUserResponse(user))
}
