package repository

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/internal/models"
	"github.com/gofleetadvisor/invoicestack/internal/tracing"
)

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) interfaces.CompanyRepository {
	return &GormCompanyRepository{db: db}
}

// ListNames returns every canonical company key in the reference table.
func (r *GormCompanyRepository) ListNames(ctx context.Context) ([]string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "GormCompanyRepository.ListNames")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	var names []string
	result := r.db.WithContext(ctx).Model(&models.Company{}).Order("name ASC").Pluck("name", &names)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return nil, result.Error
	}

	return names, nil
}

// Upsert inserts a company or refreshes its account number and email.
func (r *GormCompanyRepository) Upsert(ctx context.Context, company *models.Company) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "GormCompanyRepository.Upsert")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	if company == nil || company.Name == "" {
		return ErrInvalidInput
	}

	company.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"account_number", "email", "updated_at"}),
	}).Create(company)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
	}
	return result.Error
}
