package interfaces

import (
	"context"

	"github.com/gofleetadvisor/invoicestack/internal/models"
)

// ExtractionService is the field-extraction collaborator boundary. A failing
// collaborator must never abort a message: implementations degrade to
// all-sentinel fields with Outcome set accordingly instead of returning an
// error. The error return is reserved for context cancellation.
type ExtractionService interface {
	ExtractVehicleFields(ctx context.Context, invoiceText string) (models.VehicleFields, error)
}
