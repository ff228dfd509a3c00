package cli

import (
	"context"
	"fmt"
)

func (a *App) Show(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "-Enter document id")
	if err != nil {
		return err
	}

	doc, err := a.api.GetDocument(ctx, id)
	if err != nil {
		printlnFn("Show failed:", err)
		return err
	}

	printlnFn("Title:      ", doc.Title)
	printlnFn("Description:", doc.Description)
	printlnFn("Type:       ", doc.Type)
	printlnFn("Status:     ", displayStatus(doc))
	printlnFn("Owner:      ", doc.OwnerEmail)
	printlnFn("Uploaded:   ", doc.UploadedAt.Format("2006-01-02 15:04"))
	if doc.SignedAt != nil {
		printlnFn("Signed:     ", doc.SignedAt.Format("2006-01-02 15:04"))
	}

	printlnFn("Signers:")
	for _, s := range doc.Signers {
		state := "pending"
		if s.Signed() {
			state = fmt.Sprintf("signed (%s)", s.Signature.Kind)
		}
		printlnFn(fmt.Sprintf("  %-30s %-12s %s", s.Email, s.Role, state))
	}

	if len(doc.Files) > 0 {
		printlnFn("Files:")
		for _, f := range doc.Files {
			printlnFn(fmt.Sprintf("  %-30s %-24s %d bytes", f.Name, f.MediaType, f.Size))
		}
	}
	if len(doc.SharedWith) > 0 {
		printlnFn("Shared with:")
		for _, e := range doc.SharedWith {
			printlnFn("  " + e)
		}
	}
	return nil
}
