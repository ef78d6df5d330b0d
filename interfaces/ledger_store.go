package interfaces

import (
	"context"

	"github.com/gofleetadvisor/invoicestack/internal/models"
)

// LedgerStore is the tabular backing store for the processing ledger.
// Row positions are zero-based over the order ReadAll returns and stay
// stable across updates; only Append grows the sequence.
type LedgerStore interface {
	ReadAll(ctx context.Context) ([]models.LedgerRecord, error)
	Append(ctx context.Context, record models.LedgerRecord) error
	Update(ctx context.Context, position int, record models.LedgerRecord) error
}
