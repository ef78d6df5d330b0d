package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalerrors "github.com/gofleetadvisor/invoicestack/internal/errors"
	"github.com/gofleetadvisor/invoicestack/internal/models"
)

func TestSelectAttachments_PartitionsInvoiceAndSupporting(t *testing.T) {
	// Arrange
	attachments := []models.Attachment{
		{ID: "a1", Filename: "photo.jpg"},
		{ID: "a2", Filename: "DOT-inspection.pdf"},
		{ID: "a3", Filename: "Invoice_4521.pdf"},
		{ID: "a4", Filename: "estimate.pdf"},
	}

	// Act
	invoice, supporting, err := SelectAttachments("invoice", attachments)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "a3", invoice.ID)
	require.Len(t, supporting, 2)
	assert.Equal(t, "a2", supporting[0].ID)
	assert.Equal(t, "a4", supporting[1].ID)
}

func TestSelectAttachments_FirstInvoiceWins(t *testing.T) {
	attachments := []models.Attachment{
		{ID: "a1", Filename: "invoice_1.pdf"},
		{ID: "a2", Filename: "invoice_2.pdf"},
	}

	invoice, supporting, err := SelectAttachments("invoice", attachments)

	require.NoError(t, err)
	assert.Equal(t, "a1", invoice.ID)
	require.Len(t, supporting, 1)
	assert.Equal(t, "a2", supporting[0].ID)
}

func TestSelectAttachments_NoPdfs(t *testing.T) {
	attachments := []models.Attachment{
		{ID: "a1", Filename: "photo.jpg"},
	}

	_, _, err := SelectAttachments("invoice", attachments)

	assert.ErrorIs(t, err, internalerrors.ErrNoPdfAttachments)
}

func TestSelectAttachments_PdfsButNoInvoice(t *testing.T) {
	attachments := []models.Attachment{
		{ID: "a1", Filename: "estimate.pdf"},
	}

	_, _, err := SelectAttachments("invoice", attachments)

	assert.ErrorIs(t, err, internalerrors.ErrNoInvoiceAttachment)
}

func TestParseInvoiceNumber(t *testing.T) {
	assert.Equal(t, "4521", ParseInvoiceNumber("invoice", "Invoice_4521.pdf"))
	assert.Equal(t, "4521", ParseInvoiceNumber("invoice", "invoice-4521.pdf"))
	assert.Equal(t, "4521", ParseInvoiceNumber("invoice", "INVOICE 4521 final.pdf"))
	assert.Equal(t, models.SentinelNA, ParseInvoiceNumber("invoice", "invoice.pdf"))
	assert.Equal(t, models.SentinelNA, ParseInvoiceNumber("invoice", "estimate_12.pdf"))
}
