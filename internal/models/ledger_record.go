package models

import (
	"time"

	"github.com/gofleetadvisor/invoicestack/internal/enum"
)

// NoDotFile is the ledger placeholder for messages with no supporting bundle.
const NoDotFile = "N/A"

// LedgerRecord is one row of the processing ledger. There is at most one
// authoritative row per message id; a re-attempt overwrites the row content
// in place so the record always reflects the most recent attempt.
type LedgerRecord struct {
	Timestamp       time.Time
	MessageID       string
	Subject         string
	Company         string
	InvoiceFilename string
	DotFilename     string
	Status          enum.RecordStatus
	Error           string
}
