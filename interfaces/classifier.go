package interfaces

import (
	"context"

	"github.com/gofleetadvisor/invoicestack/internal/models"
)

// ClassifierService decides per-message routing. Decisions are stateless:
// each run re-evaluates every message from its mailbox metadata alone.
type ClassifierService interface {
	Classify(ctx context.Context, message *models.Message) models.ClassificationDecision
}
