// Package access computes the subset of documents a principal may see.
package access

import "github.com/signdesk/signdesk/internal/models"

// Lister is the slice of the document store the filter needs.
type Lister interface {
	All() []models.Document
	ListOwned(principal models.Principal) []models.Document
	ListShared(principal models.Principal) []models.Document
}

// Visible returns the documents the principal may list or act upon. An admin
// bypasses ownership and sharing checks entirely; everyone else sees the
// union of owned and shared. The result is recomputed from the live
// collection on every call and must not be cached.
func Visible(principal models.Principal, store Lister) []models.Document {
	if principal.IsAdmin() {
		return store.All()
	}

	owned := store.ListOwned(principal)
	shared := store.ListShared(principal)

	out := make([]models.Document, 0, len(owned)+len(shared))
	out = append(out, owned...)
	out = append(out, shared...)
	return out
}
