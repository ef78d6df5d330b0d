package errors

import "github.com/pkg/errors"

var (
	// classification / extraction errors
	ErrCompanyNotFound     = errors.New("company name not found or not in reference set")
	ErrNoPdfAttachments    = errors.New("no PDF attachments found")
	ErrNoInvoiceAttachment = errors.New("no invoice file found")

	// orchestration errors
	ErrDuplicateMessageListed = errors.New("message listed twice across inbox pages")
	ErrUploadFailed           = errors.New("storage upload failed")
	ErrLabelNotConfigured     = errors.New("mailbox label not configured")
)
