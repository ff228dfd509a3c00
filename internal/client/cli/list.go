package cli

import (
	"context"
	"fmt"

	"github.com/signdesk/signdesk/internal/models"
)

// displayStatus derives the user-facing state: a document everyone has signed
// shows as completed, which is never stored.
func displayStatus(d models.Document) string {
	if d.Status == models.StatusSigned && d.AllSigned() {
		return "completed"
	}
	return string(d.Status)
}

func (a *App) List(ctx context.Context) error {
	docs, err := a.api.ListDocuments(ctx)
	if err != nil {
		printlnFn("List failed:", err)
		return err
	}

	if len(docs) == 0 {
		printlnFn("No documents")
		return nil
	}

	for _, d := range docs {
		signed := 0
		for _, s := range d.Signers {
			if s.Signed() {
				signed++
			}
		}
		printlnFn(fmt.Sprintf("%s  %-30s  %-10s  signers %d/%d",
			d.ID, d.Title, displayStatus(d), signed, len(d.Signers)))
	}
	return nil
}
