// Package blobcodec converts binary attachments to and from the textual
// encoding used at the persistence boundary. The round trip is byte-exact:
// Decode(Encode(a)) returns content identical to a.
package blobcodec

import (
	"encoding/base64"
	"fmt"

	"github.com/signdesk/signdesk/internal/common"
	"github.com/signdesk/signdesk/internal/models"
)

// Encoded is the persisted form of an attachment. Size records the original
// byte length because the base64 payload is longer than the content it
// represents.
type Encoded struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
	Content   string `json:"content"`
}

// Encode converts an attachment into its persisted form.
func Encode(a models.Attachment) Encoded {
	return Encoded{
		Name:      a.Name,
		MediaType: a.MediaType,
		Size:      int64(len(a.Content)),
		Content:   base64.StdEncoding.EncodeToString(a.Content),
	}
}

// Decode reconstructs an attachment from its persisted form. The reported
// Size is taken from the stored value, not from the decoded representation,
// so handles rebuilt from storage report the original length even if the
// container allocated differently. A malformed payload yields
// common.ErrCorruptAttachment.
func Decode(e Encoded) (models.Attachment, error) {
	content, err := base64.StdEncoding.DecodeString(e.Content)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("%w: %s: %v", common.ErrCorruptAttachment, e.Name, err)
	}
	return models.Attachment{
		Name:      e.Name,
		MediaType: e.MediaType,
		Size:      e.Size,
		Content:   content,
	}, nil
}
