package interfaces

import (
	"context"

	"github.com/gofleetadvisor/invoicestack/internal/models"
)

// LedgerService is the single idempotency gate. It exclusively owns the
// persisted record set: one authoritative row per message id, latest attempt
// wins. A single run owns the service; concurrent runs are not supported.
type LedgerService interface {
	// Init reads the backing store and builds the message-id index.
	Init(ctx context.Context) error

	// IsProcessed reports whether a success record exists for the message.
	// The orchestrator must do no work at all for processed messages.
	IsProcessed(messageId string) bool

	// Record updates the existing row for the record's message id or appends
	// a new one, keeping the in-memory index in sync.
	Record(ctx context.Context, record models.LedgerRecord) error
}
