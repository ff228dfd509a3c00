package cli

import "context"

func (a *App) Share(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "-Enter document id")
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "-Enter email to share with")
	if err != nil {
		return err
	}

	if err := a.api.ShareDocument(ctx, id, email); err != nil {
		printlnFn("Share failed:", err)
		return err
	}
	printlnFn("Shared with", email)
	return nil
}
