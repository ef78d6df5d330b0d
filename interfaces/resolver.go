package interfaces

import (
	"context"

	"github.com/gofleetadvisor/invoicestack/internal/models"
)

// CompanyResolverService matches free-text company names against the
// reference set snapshot. Init loads the snapshot; it is the only refresh
// point, so a running pipeline always sees one consistent reference set.
type CompanyResolverService interface {
	Init(ctx context.Context) error

	// CandidateFromMessage derives the normalized candidate key from a
	// message body. ok is false when no usable text was found.
	CandidateFromMessage(ctx context.Context, message *models.Message) (candidateKey string, ok bool)

	// Resolve maps a candidate key to a canonical reference key, or reports
	// no match. The pipeline must not guess beyond this.
	Resolve(ctx context.Context, candidateKey string) (companyKey string, ok bool)
}
