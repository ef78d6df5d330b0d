package interfaces

import (
	"context"

	"github.com/gofleetadvisor/invoicestack/internal/models"
)

// MailboxService is the mailbox provider boundary. Implementations own all
// provider specifics (auth, encoding, pagination); the pipeline only sees
// immutable messages and label ids.
type MailboxService interface {
	// ListInbox returns one page of inbox message ids plus the token for the
	// next page, empty when exhausted.
	ListInbox(ctx context.Context, pageToken string) (ids []string, nextPageToken string, err error)

	// GetMessage fetches the full message content including headers, bodies
	// and attachment descriptors.
	GetMessage(ctx context.Context, messageId string) (*models.Message, error)

	// GetAttachment downloads the bytes behind one attachment handle.
	GetAttachment(ctx context.Context, messageId, attachmentId string) ([]byte, error)

	// ModifyLabels adds and removes labels on a message in one call.
	ModifyLabels(ctx context.Context, messageId string, addLabelIds, removeLabelIds []string) error

	// ListLabels returns all mailbox labels as name -> id.
	ListLabels(ctx context.Context) (map[string]string, error)

	// CreateLabel creates a label and returns its id.
	CreateLabel(ctx context.Context, name string) (string, error)
}
