package interfaces

import (
	"context"

	"github.com/gofleetadvisor/invoicestack/internal/models"
)

// PipelineService drives one sequential intake pass over the inbox.
type PipelineService interface {
	// Init resolves mailbox labels and loads the ledger and reference
	// snapshot. Must be called once before Run.
	Init(ctx context.Context) error

	// Run visits every inbox message at most once. limit > 0 caps how many
	// listed messages are considered.
	Run(ctx context.Context, limit int) (models.RunSummary, error)
}
