// Package models defines the data model shared by the document store,
// the signing flow and the API layer.
package models

import "time"

// DocumentStatus is the stored lifecycle state of a document. The display
// state "completed" is derived via AllSigned and never stored.
type DocumentStatus string

const (
	StatusPending DocumentStatus = "pending"
	StatusSigned  DocumentStatus = "signed"
	StatusExpired DocumentStatus = "expired"
)

// Attachment is a binary file carried by a document. Content is raw bytes;
// the blobcodec package converts it to a transport-safe encoding whenever
// the document crosses the persistence boundary.
type Attachment struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	// Size is the original byte length. It is tracked independently of
	// len(Content) because the persisted encoding is not length-preserving.
	Size    int64  `json:"size"`
	Content []byte `json:"-"`
}

// Signer is a per-document signing obligation. Email is the join key against
// the authenticated principal; Signature stays nil until fulfilled.
type Signer struct {
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Signature *Signature `json:"signature,omitempty"`
}

// Signed reports whether the signer has recorded a signature.
func (s Signer) Signed() bool {
	return s.Signature != nil
}

type Document struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        string         `json:"type"`
	Status      DocumentStatus `json:"status"`
	UploadedAt  time.Time      `json:"uploaded_at"`
	SignedAt    *time.Time     `json:"signed_at,omitempty"`
	// Signers keeps creation order; signing never reorders it.
	Signers []Signer     `json:"signers"`
	Files   []Attachment `json:"files"`
	// OwnerEmail is stamped at creation and never changes.
	OwnerEmail string `json:"owner_email"`
	// SharedWith has set semantics; duplicates are suppressed on share.
	SharedWith []string `json:"shared_with"`
}

// AllSigned reports whether every signer has recorded a signature.
// A document with no signers is vacuously all-signed; the upload flow
// requires at least one signer, so callers only hit that case with
// hand-built documents.
func (d Document) AllSigned() bool {
	for _, s := range d.Signers {
		if !s.Signed() {
			return false
		}
	}
	return true
}

// SharedWithEmail reports whether the document has been shared with the
// given principal email.
func (d Document) SharedWithEmail(email string) bool {
	for _, e := range d.SharedWith {
		if e == email {
			return true
		}
	}
	return false
}

// HasSigner reports whether the given email is one of the designated signers.
func (d Document) HasSigner(email string) bool {
	for _, s := range d.Signers {
		if s.Email == email {
			return true
		}
	}
	return false
}
