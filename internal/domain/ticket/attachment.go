package ticket

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// Attachment is a file stored for a ticket, optionally belonging to a comment.
type Attachment struct {
	ID          uint
	TicketID    uint
	CommentID   *uint
	UserID      uint
	Filename    string
	ContentType string
	Size        int64
	StorageKey  string
	CreatedAt   time.Time
}

// AttachmentStore keeps attachment bytes outside the database.
type AttachmentStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

const maxFilenameLength = 180

// CleanFilename keeps the base name of an uploaded or mailed file and drops
// characters that are unsafe in storage keys.
func CleanFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f, strings.ContainsRune(`/:*?"<>|`, r):
			return '_'
		}
		return r
	}, name)
	if name == "." || name == "/" || name == "" {
		name = "attachment"
	}
	if len(name) > maxFilenameLength {
		name = name[len(name)-maxFilenameLength:]
	}
	return name
}

// AttachmentKey builds the storage key of a ticket file. token makes keys unique.
func AttachmentKey(ticketID uint, token, filename string) string {
	return fmt.Sprintf("tickets/%d/%s-%s", ticketID, token, CleanFilename(filename))
}
