package main

import (
	"context"
	"encoding/csv"
	"io"
	"log"
	"os"

	"github.com/opentracing/opentracing-go"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/gofleetadvisor/invoicestack/config"
	"github.com/gofleetadvisor/invoicestack/internal/database"
	"github.com/gofleetadvisor/invoicestack/internal/logger"
	"github.com/gofleetadvisor/invoicestack/internal/models"
	"github.com/gofleetadvisor/invoicestack/internal/repository"
	"github.com/gofleetadvisor/invoicestack/internal/tracing"
	"github.com/gofleetadvisor/invoicestack/server"
	"github.com/gofleetadvisor/invoicestack/services"
	"github.com/gofleetadvisor/invoicestack/services/companies"
)

func main() {
	app := &cli.App{
		Name:  "invoicestack",
		Usage: "Sort vehicle-service invoice emails into cloud storage",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run one pipeline pass over the inbox and exit",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "cap how many listed messages are considered (0 = all)",
					},
				},
				Action: runCommand,
			},
			{
				Name:   "serve",
				Usage:  "Start the HTTP API and scheduled pipeline runs",
				Action: serveCommand,
			},
			{
				Name:  "import-companies",
				Usage: "Load the company reference set from a CSV file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "CSV file with name, account number and email columns",
						Required: true,
					},
				},
				Action: importCompaniesCommand,
			},
			{
				Name:   "migrate",
				Usage:  "Run reference database migrations",
				Action: migrateCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup() (*config.Config, *gorm.DB, error) {
	cfg, err := config.InitConfig()
	if err != nil {
		return nil, nil, err
	}

	referenceDB, err := database.InitReferenceDatabase(cfg.DatabaseConfig)
	if err != nil {
		return nil, nil, err
	}

	return cfg, referenceDB, nil
}

func runCommand(c *cli.Context) error {
	cfg, referenceDB, err := setup()
	if err != nil {
		return err
	}

	appLogger := logger.NewAppLogger(cfg.Logger)
	appLogger.InitLogger()

	tracer, closer, err := tracing.NewJaegerTracer(cfg.Tracing, appLogger)
	if err != nil {
		return err
	}
	defer closer.Close()
	opentracing.SetGlobalTracer(tracer)

	repos, err := repository.InitRepositories(referenceDB, cfg.LedgerConfig)
	if err != nil {
		return err
	}

	ctx := context.Background()
	svcs, err := services.InitServices(ctx, cfg, appLogger, repos)
	if err != nil {
		return err
	}

	if err := svcs.PipelineService.Init(ctx); err != nil {
		return err
	}

	summary, err := svcs.PipelineService.Run(ctx, c.Int("limit"))
	if err != nil {
		return err
	}

	appLogger.Infof("Run %s finished: %d listed, %d processed, %d skipped, %d failed",
		summary.RunID, summary.Total, summary.Processed, summary.Skipped, summary.Failed)
	return nil
}

func serveCommand(c *cli.Context) error {
	cfg, referenceDB, err := setup()
	if err != nil {
		return err
	}

	srv, err := server.NewServer(cfg, referenceDB)
	if err != nil {
		return err
	}

	return srv.Run()
}

func importCompaniesCommand(c *cli.Context) error {
	cfg, referenceDB, err := setup()
	if err != nil {
		return err
	}

	appLogger := logger.NewAppLogger(cfg.Logger)
	appLogger.InitLogger()

	repos, err := repository.InitRepositories(referenceDB, cfg.LedgerConfig)
	if err != nil {
		return err
	}

	file, err := os.Open(c.String("file"))
	if err != nil {
		return err
	}
	defer file.Close()

	ctx := context.Background()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	imported := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		name := companies.NormalizeReferenceName(row[0])
		if name == "" {
			continue
		}
		company := &models.Company{Name: name}
		if len(row) > 1 {
			company.AccountNumber = row[1]
		}
		if len(row) > 2 {
			company.Email = row[2]
		}

		if err := repos.CompanyRepository.Upsert(ctx, company); err != nil {
			return err
		}
		imported++
	}

	appLogger.Infof("Imported %d companies", imported)
	return nil
}

func migrateCommand(c *cli.Context) error {
	_, referenceDB, err := setup()
	if err != nil {
		return err
	}

	if err := repository.MigrateReferenceDB(referenceDB); err != nil {
		return err
	}
	log.Println("Reference database migration completed successfully")
	return nil
}
