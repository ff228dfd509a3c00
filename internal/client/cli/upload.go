package cli

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/signdesk/signdesk/internal/models"
)

func (a *App) Upload(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "-Enter title")
	if err != nil {
		return err
	}
	docType, err := GetSimpleText(a.reader, "-Enter document type (contract, agreement, ...)")
	if err != nil {
		return err
	}
	signerLine, err := GetSimpleText(a.reader, "-Enter signer emails, comma separated")
	if err != nil {
		return err
	}
	path, err := GetSimpleText(a.reader, "-Enter file path (empty to skip)")
	if err != nil {
		return err
	}

	var signers []string
	for _, s := range strings.Split(signerLine, ",") {
		if s = strings.TrimSpace(s); s != "" {
			signers = append(signers, s)
		}
	}

	var files []models.Attachment
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			printlnFn("Cannot read file:", err)
			return err
		}
		mediaType := mime.TypeByExtension(filepath.Ext(path))
		if mediaType == "" {
			mediaType = "application/octet-stream"
		}
		files = append(files, models.Attachment{
			Name:      filepath.Base(path),
			MediaType: mediaType,
			Size:      int64(len(content)),
			Content:   content,
		})
	}

	doc, err := a.api.UploadDocument(ctx, title, docType, signers, files)
	if err != nil {
		printlnFn("Upload failed:", err)
		return err
	}
	printlnFn("Uploaded document", doc.ID)
	return nil
}
