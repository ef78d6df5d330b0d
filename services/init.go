package services

import (
	"context"

	"github.com/gofleetadvisor/invoicestack/config"
	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/internal/logger"
	"github.com/gofleetadvisor/invoicestack/internal/repository"
	"github.com/gofleetadvisor/invoicestack/services/classifier"
	"github.com/gofleetadvisor/invoicestack/services/companies"
	"github.com/gofleetadvisor/invoicestack/services/extraction"
	"github.com/gofleetadvisor/invoicestack/services/gmail"
	"github.com/gofleetadvisor/invoicestack/services/ledger"
	"github.com/gofleetadvisor/invoicestack/services/pdfutil"
	"github.com/gofleetadvisor/invoicestack/services/pipeline"
	"github.com/gofleetadvisor/invoicestack/services/storage"
)

type Services struct {
	MailboxService        interfaces.MailboxService
	ClassifierService     interfaces.ClassifierService
	CompanyResolver       interfaces.CompanyResolverService
	ExtractionService     interfaces.ExtractionService
	PDFService            interfaces.PDFService
	LedgerService         interfaces.LedgerService
	InvoiceStorageService interfaces.StorageService
	DotStorageService     interfaces.StorageService
	PipelineService       interfaces.PipelineService
}

func InitServices(ctx context.Context, cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	mailbox, err := gmail.NewGmailService(ctx, cfg.GmailConfig)
	if err != nil {
		return nil, err
	}

	invoiceStorage, dotStorage := storage.NewBucketServices(cfg.StorageConfig)

	services := Services{
		MailboxService:        mailbox,
		ClassifierService:     classifier.NewClassifierService(cfg.PipelineConfig),
		CompanyResolver:       companies.NewCompanyResolverService(log, repos.CompanyRepository),
		ExtractionService:     extraction.NewExtractionService(cfg.ExtractionConfig),
		PDFService:            pdfutil.NewPDFService(),
		LedgerService:         ledger.NewLedgerService(log, repos.LedgerStore),
		InvoiceStorageService: invoiceStorage,
		DotStorageService:     dotStorage,
	}

	services.PipelineService = pipeline.NewPipelineService(
		cfg.PipelineConfig,
		log,
		services.MailboxService,
		services.ClassifierService,
		services.CompanyResolver,
		services.ExtractionService,
		services.PDFService,
		services.LedgerService,
		services.InvoiceStorageService,
		services.DotStorageService,
	)

	return &services, nil
}
