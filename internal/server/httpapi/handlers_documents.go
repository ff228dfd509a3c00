package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/signdesk/signdesk/internal/blobcodec"
	"github.com/signdesk/signdesk/internal/models"
	"github.com/signdesk/signdesk/internal/server/documents"
	"github.com/signdesk/signdesk/internal/signing"
)

type signerRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// uploadRequest carries attachments in their transport encoding; the codec
// turns them back into raw bytes before they reach the store.
type uploadRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Type        string              `json:"type"`
	Signers     []signerRequest     `json:"signers"`
	Files       []blobcodec.Encoded `json:"files"`
}

func (a *API) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if !a.decode(w, r, &req) {
		return
	}

	in := documents.UploadInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
	}
	for _, s := range req.Signers {
		in.Signers = append(in.Signers, models.Signer{Email: s.Email, Role: s.Role})
	}
	for _, f := range req.Files {
		att, err := blobcodec.Decode(f)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		in.Files = append(in.Files, att)
	}

	doc, err := a.documents.Upload(r.Context(), principalFrom(r), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, doc)
}

func (a *API) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := a.documents.List(principalFrom(r))
	if docs == nil {
		docs = []models.Document{}
	}
	a.writeJSON(w, http.StatusOK, docs)
}

func (a *API) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := a.documents.Get(principalFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, doc)
}

func (a *API) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := a.documents.Delete(r.Context(), principalFrom(r), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleShareDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.documents.Share(r.Context(), principalFrom(r), chi.URLParam(r, "id"), req.Email); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleSignChallenge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method   string `json:"method"`
		IDNumber string `json:"id_number"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	err := a.documents.RequestChallenge(r.Context(), principalFrom(r),
		chi.URLParam(r, "id"), signing.Method(req.Method), req.IDNumber)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "challenge sent"})
}

func (a *API) handleSign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
		Image  string `json:"image"`
		Name   string `json:"name"`
		Style  string `json:"style"`
		Code   string `json:"code"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	doc, err := a.documents.Sign(r.Context(), principalFrom(r), chi.URLParam(r, "id"), documents.SignInput{
		Method: signing.Method(req.Method),
		Image:  req.Image,
		Name:   req.Name,
		Style:  req.Style,
		Code:   req.Code,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, doc)
}
