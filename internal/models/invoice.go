package models

import "github.com/gofleetadvisor/invoicestack/internal/enum"

// SentinelNA marks a field the pipeline could not determine. It is distinct
// from the empty string: a synthesized filename always carries every segment.
const SentinelNA = "NA"

// VehicleFields is the unit/VIN/plate triple returned by the
// field-extraction collaborator, plus how it was obtained. A degraded
// outcome means every field is SentinelNA and the reason says why.
type VehicleFields struct {
	Unit    string
	VIN     string
	Plate   string
	Outcome enum.ExtractionOutcome
	Reason  string
}

// DegradedVehicleFields is the all-sentinel fallback used when the
// collaborator fails outright.
func DegradedVehicleFields(reason string) VehicleFields {
	return VehicleFields{
		Unit:    SentinelNA,
		VIN:     SentinelNA,
		Plate:   SentinelNA,
		Outcome: enum.ExtractionDegraded,
		Reason:  reason,
	}
}

// ExtractedInvoice holds everything resolved for one processed message.
// It lives only for the duration of that message's processing; the ledger
// row is the only thing persisted.
type ExtractedInvoice struct {
	Company       string
	InvoiceNumber string
	Fields        VehicleFields
	EmailDate     string // MMDDYYYY
	Invoice       AttachmentFile
	Supporting    []AttachmentFile
}
