package interfaces

import (
	"context"

	"github.com/gofleetadvisor/invoicestack/internal/models"
)

// CompanyRepository is the reference-store boundary for canonical company keys.
type CompanyRepository interface {
	// ListNames returns every canonical company key.
	ListNames(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, company *models.Company) error
}
