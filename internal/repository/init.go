package repository

import (
	"gorm.io/gorm"

	"github.com/gofleetadvisor/invoicestack/config"
	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/internal/models"
)

type Repositories struct {
	CompanyRepository interfaces.CompanyRepository
	LedgerStore       interfaces.LedgerStore
}

func InitRepositories(referenceDB *gorm.DB, ledgerConfig *config.LedgerConfig) (*Repositories, error) {
	ledgerStore, err := NewCsvLedgerStore(ledgerConfig.FilePath)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		CompanyRepository: NewCompanyRepository(referenceDB),
		LedgerStore:       ledgerStore,
	}, nil
}

func MigrateReferenceDB(referenceDB *gorm.DB) error {
	return referenceDB.AutoMigrate(
		&models.Company{},
	)
}
