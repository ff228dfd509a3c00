// Package documents orchestrates the document store, the access filter and
// the signing flow behind the API surface.
package documents

import (
	"context"
	"fmt"

	"github.com/signdesk/signdesk/internal/access"
	"github.com/signdesk/signdesk/internal/common"
	"github.com/signdesk/signdesk/internal/docstore"
	"github.com/signdesk/signdesk/internal/logging"
	"github.com/signdesk/signdesk/internal/models"
	"github.com/signdesk/signdesk/internal/signing"
)

// UploadInput is the payload for creating a document.
type UploadInput struct {
	Title       string
	Description string
	Type        string
	Signers     []models.Signer
	Files       []models.Attachment
}

// SignInput carries one signing step. Draw and type commit directly; the
// identity methods need a prior challenge request and submit Code here.
type SignInput struct {
	Method signing.Method
	Image  string
	Name   string
	Style  string
	Code   string
}

type Service struct {
	store    *docstore.Store
	sessions *signing.Manager
	log      logging.Logger
}

func NewService(store *docstore.Store, sessions *signing.Manager, log logging.Logger) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		log:      log.With("component", "documents"),
	}
}

// Upload validates and stores a new document owned by the principal.
// At least one signer with an email is required; signatures cannot arrive
// pre-filled.
func (s *Service) Upload(ctx context.Context, principal models.Principal, in UploadInput) (models.Document, error) {
	if in.Title == "" {
		return models.Document{}, fmt.Errorf("%w: title is required", common.ErrValidationFailed)
	}
	if len(in.Signers) == 0 {
		return models.Document{}, fmt.Errorf("%w: at least one signer is required", common.ErrValidationFailed)
	}
	for _, sg := range in.Signers {
		if sg.Email == "" {
			return models.Document{}, fmt.Errorf("%w: signer email is required", common.ErrValidationFailed)
		}
		if sg.Signature != nil {
			return models.Document{}, fmt.Errorf("%w: signatures are collected through the signing flow", common.ErrValidationFailed)
		}
	}
	for _, f := range in.Files {
		if f.Name == "" {
			return models.Document{}, fmt.Errorf("%w: attachment name is required", common.ErrValidationFailed)
		}
	}

	doc := models.Document{
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Signers:     in.Signers,
		Files:       in.Files,
	}
	created := s.store.Create(ctx, principal, doc)
	s.log.Info(ctx, "document uploaded", "doc_id", created.ID, "signers", len(created.Signers))
	return created, nil
}

// List returns the documents visible to the principal.
func (s *Service) List(principal models.Principal) []models.Document {
	return access.Visible(principal, s.store)
}

// Get returns a single visible document. Documents outside the principal's
// visible set are reported as missing rather than forbidden.
func (s *Service) Get(principal models.Principal, id string) (models.Document, error) {
	doc, ok := s.store.Get(id)
	if !ok {
		return models.Document{}, common.ErrorNotFound
	}
	if !s.canSee(principal, doc) {
		return models.Document{}, common.ErrorNotFound
	}
	return doc, nil
}

// Share grants targetEmail visibility of the document. Only the owner or an
// admin may share.
func (s *Service) Share(ctx context.Context, principal models.Principal, id, targetEmail string) error {
	if targetEmail == "" {
		return fmt.Errorf("%w: target email is required", common.ErrValidationFailed)
	}

	doc, ok := s.store.Get(id)
	if !ok {
		return common.ErrorNotFound
	}
	if doc.OwnerEmail != principal.Email && !principal.IsAdmin() {
		return common.ErrorUnauthorized
	}

	s.store.Share(ctx, id, targetEmail)
	return nil
}

// Delete removes the document. The ownership check lives here so the API can
// answer 403; the store itself treats a non-owner delete as a silent no-op.
func (s *Service) Delete(ctx context.Context, principal models.Principal, id string) error {
	doc, ok := s.store.Get(id)
	if !ok {
		return common.ErrorNotFound
	}
	if doc.OwnerEmail != principal.Email && !principal.IsAdmin() {
		return common.ErrorUnauthorized
	}

	s.store.Delete(ctx, principal, id)
	return nil
}

// RequestChallenge starts (or restarts) an identity-method session for the
// principal on the document and issues the simulated challenge. The identity
// number must be format-valid for the chosen method.
func (s *Service) RequestChallenge(ctx context.Context, principal models.Principal, docID string, method signing.Method, idNumber string) error {
	if _, err := s.signerDoc(principal, docID); err != nil {
		return err
	}
	if method != signing.MethodAadhaar && method != signing.MethodDSC {
		return fmt.Errorf("%w: challenge only applies to identity methods", common.ErrValidationFailed)
	}

	session := s.sessions.Start(docID, principal, s.committer())
	if err := session.SelectMethod(method); err != nil {
		return err
	}
	if err := session.EnterID(idNumber); err != nil {
		return err
	}
	return session.RequestChallenge(ctx)
}

// Sign records the principal's signature on the document. Draw and type run
// the whole session in one call; the identity methods continue the session
// opened by RequestChallenge and submit the code.
func (s *Service) Sign(ctx context.Context, principal models.Principal, docID string, in SignInput) (models.Document, error) {
	if _, err := s.signerDoc(principal, docID); err != nil {
		return models.Document{}, err
	}

	switch in.Method {
	case signing.MethodDraw, signing.MethodType:
		session := s.sessions.Start(docID, principal, s.committer())
		if err := session.SelectMethod(in.Method); err != nil {
			return models.Document{}, err
		}
		if in.Method == signing.MethodDraw {
			if err := session.Draw(in.Image); err != nil {
				return models.Document{}, err
			}
		} else {
			if err := session.Type(in.Name, in.Style); err != nil {
				return models.Document{}, err
			}
		}
		if err := session.Commit(ctx); err != nil {
			return models.Document{}, err
		}

	case signing.MethodAadhaar, signing.MethodDSC:
		session, ok := s.sessions.Get(docID, principal)
		if !ok {
			return models.Document{}, fmt.Errorf("%w: request a challenge first", signing.ErrInvalidTransition)
		}
		if err := session.SubmitChallenge(ctx, in.Code); err != nil {
			return models.Document{}, err
		}

	default:
		return models.Document{}, fmt.Errorf("%w: unknown method %q", common.ErrValidationFailed, in.Method)
	}

	s.sessions.Drop(docID, principal)

	doc, ok := s.store.Get(docID)
	if !ok {
		return models.Document{}, common.ErrorNotFound
	}
	return doc, nil
}

// committer finalizes a session by recording the signature and moving the
// document to signed.
func (s *Service) committer() signing.Committer {
	return signing.CommitFunc(func(ctx context.Context, principal models.Principal, docID string, sig *models.Signature) error {
		_, err := s.store.UpdateStatus(ctx, principal, docID, models.StatusSigned, sig)
		return err
	})
}

// signerDoc resolves the document and checks the principal is one of its
// designated signers.
func (s *Service) signerDoc(principal models.Principal, docID string) (models.Document, error) {
	doc, ok := s.store.Get(docID)
	if !ok {
		return models.Document{}, common.ErrorNotFound
	}
	if !doc.HasSigner(principal.Email) {
		return models.Document{}, common.ErrorUnauthorized
	}
	return doc, nil
}

func (s *Service) canSee(principal models.Principal, doc models.Document) bool {
	if principal.IsAdmin() {
		return true
	}
	return doc.OwnerEmail == principal.Email ||
		doc.SharedWithEmail(principal.Email) ||
		doc.HasSigner(principal.Email)
}
