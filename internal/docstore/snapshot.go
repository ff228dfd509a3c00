package docstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/signdesk/signdesk/internal/blobcodec"
	"github.com/signdesk/signdesk/internal/models"
)

// Snapshotter persists the full serialized collection into a fixed durable
// slot. Save overwrites the slot wholesale; Load returns common.ErrorNotFound
// when the slot has never been written.
type Snapshotter interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
}

// snapshotDoc mirrors models.Document with attachments in their encoded
// persisted form.
type snapshotDoc struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Type        string                `json:"type"`
	Status      models.DocumentStatus `json:"status"`
	UploadedAt  time.Time             `json:"uploaded_at"`
	SignedAt    *time.Time            `json:"signed_at,omitempty"`
	Signers     []models.Signer       `json:"signers"`
	Files       []blobcodec.Encoded   `json:"files"`
	OwnerEmail  string                `json:"owner_email"`
	SharedWith  []string              `json:"shared_with"`
}

type snapshot struct {
	Documents []snapshotDoc `json:"documents"`
}

// marshalSnapshot re-encodes every attachment of every document. This is
// deliberate correctness-over-efficiency: the persisted snapshot is always a
// self-consistent image of the in-memory collection.
func marshalSnapshot(docs []models.Document) ([]byte, error) {
	snap := snapshot{Documents: make([]snapshotDoc, 0, len(docs))}
	for _, d := range docs {
		sd := snapshotDoc{
			ID:          d.ID,
			Title:       d.Title,
			Description: d.Description,
			Type:        d.Type,
			Status:      d.Status,
			UploadedAt:  d.UploadedAt,
			SignedAt:    d.SignedAt,
			Signers:     d.Signers,
			OwnerEmail:  d.OwnerEmail,
			SharedWith:  d.SharedWith,
		}
		for _, f := range d.Files {
			sd.Files = append(sd.Files, blobcodec.Encode(f))
		}
		snap.Documents = append(snap.Documents, sd)
	}
	return json.Marshal(snap)
}

// unmarshalSnapshot rebuilds the collection from its persisted form. Any
// decode failure is returned to the caller, which degrades to an empty
// collection rather than crashing.
func unmarshalSnapshot(data []byte) ([]models.Document, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	docs := make([]models.Document, 0, len(snap.Documents))
	for _, sd := range snap.Documents {
		d := models.Document{
			ID:          sd.ID,
			Title:       sd.Title,
			Description: sd.Description,
			Type:        sd.Type,
			Status:      sd.Status,
			UploadedAt:  sd.UploadedAt,
			SignedAt:    sd.SignedAt,
			Signers:     sd.Signers,
			OwnerEmail:  sd.OwnerEmail,
			SharedWith:  sd.SharedWith,
		}
		for _, ef := range sd.Files {
			f, err := blobcodec.Decode(ef)
			if err != nil {
				return nil, err
			}
			d.Files = append(d.Files, f)
		}
		docs = append(docs, d)
	}
	return docs, nil
}
