package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gofleetadvisor/invoicestack/internal/models"
)

func sampleInvoice() *models.ExtractedInvoice {
	return &models.ExtractedInvoice{
		Company:       "acme-corp",
		InvoiceNumber: "4521",
		EmailDate:     "03152026",
		Fields: models.VehicleFields{
			Unit:  "7751",
			VIN:   "1FTFW1ET5DFC10312",
			Plate: "ABC1234",
		},
	}
}

func TestInvoiceFilename(t *testing.T) {
	name := InvoiceFilename(sampleInvoice())

	assert.Equal(t, "acme-corp__I-4521__U-7751__V-1FTFW1ET5DFC10312__D-03152026__P-ABC1234.pdf", name)
}

func TestDotFilename(t *testing.T) {
	name := DotFilename(sampleInvoice())

	assert.Equal(t, "acme-corp__dot__I-4521__U-7751__V-1FTFW1ET5DFC10312__D-03152026__P-ABC1234.pdf", name)
}

func TestInvoiceFilename_SentinelsKeptVerbatim(t *testing.T) {
	invoice := sampleInvoice()
	invoice.InvoiceNumber = models.SentinelNA
	invoice.Fields = models.DegradedVehicleFields("collaborator unavailable")

	name := InvoiceFilename(invoice)

	assert.Equal(t, "acme-corp__I-NA__U-NA__V-NA__D-03152026__P-NA.pdf", name)
}
