package pipeline

import (
	"regexp"
	"strings"

	internalerrors "github.com/gofleetadvisor/invoicestack/internal/errors"
	"github.com/gofleetadvisor/invoicestack/internal/models"
)

const pdfExtension = ".pdf"

// SelectAttachments partitions a message's PDF attachments into the single
// invoice attachment (filename starts with the marker, case-insensitive) and
// the remaining supporting ("DOT") PDFs. A message without an invoice
// attachment is a hard failure for that message.
func SelectAttachments(marker string, attachments []models.Attachment) (models.Attachment, []models.Attachment, error) {
	marker = strings.ToLower(marker)

	var (
		invoice    models.Attachment
		found      bool
		supporting []models.Attachment
		anyPdf     bool
	)

	for _, attachment := range attachments {
		filename := strings.ToLower(attachment.Filename)
		if !strings.HasSuffix(filename, pdfExtension) {
			continue
		}
		anyPdf = true

		if !found && strings.HasPrefix(filename, marker) {
			invoice = attachment
			found = true
			continue
		}
		supporting = append(supporting, attachment)
	}

	if !anyPdf {
		return models.Attachment{}, nil, internalerrors.ErrNoPdfAttachments
	}
	if !found {
		return models.Attachment{}, nil, internalerrors.ErrNoInvoiceAttachment
	}
	return invoice, supporting, nil
}

// ParseInvoiceNumber pulls the digits following the marker out of the
// invoice attachment's filename, e.g. "Invoice_4521.pdf" -> "4521".
// No digits yields the NA sentinel.
func ParseInvoiceNumber(marker, filename string) string {
	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(marker) + `[-_\s]*(\d+)`)
	match := pattern.FindStringSubmatch(filename)
	if match == nil {
		return models.SentinelNA
	}
	return match[1]
}
