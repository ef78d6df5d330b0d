package pipeline

import (
	"fmt"
	"strings"

	"github.com/gofleetadvisor/invoicestack/internal/models"
)

// InvoiceFilename builds the canonical invoice object name:
// <company>__I-<invoice#>__U-<unit>__V-<vin>__D-<date>__P-<plate>.pdf
// Only the final string is trimmed; sentinel values keep their exact form.
func InvoiceFilename(invoice *models.ExtractedInvoice) string {
	return strings.TrimSpace(fmt.Sprintf("%s__I-%s__U-%s__V-%s__D-%s__P-%s.pdf",
		invoice.Company,
		invoice.InvoiceNumber,
		invoice.Fields.Unit,
		invoice.Fields.VIN,
		invoice.EmailDate,
		invoice.Fields.Plate,
	))
}

// DotFilename is the invoice name with a "__dot" segment after the company,
// used for the merged supporting-document bundle.
func DotFilename(invoice *models.ExtractedInvoice) string {
	return strings.TrimSpace(fmt.Sprintf("%s__dot__I-%s__U-%s__V-%s__D-%s__P-%s.pdf",
		invoice.Company,
		invoice.InvoiceNumber,
		invoice.Fields.Unit,
		invoice.Fields.VIN,
		invoice.EmailDate,
		invoice.Fields.Plate,
	))
}
