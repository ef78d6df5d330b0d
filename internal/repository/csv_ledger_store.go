package repository

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/internal/enum"
	"github.com/gofleetadvisor/invoicestack/internal/models"
	"github.com/gofleetadvisor/invoicestack/internal/tracing"
)

// Column order is load-bearing: positions are the update key.
var ledgerHeader = []string{
	"timestamp",
	"message_id",
	"subject",
	"company",
	"invoice_filename",
	"dot_filename",
	"status",
	"error",
}

// CsvLedgerStore persists the ledger as a single CSV file. Positions are
// zero-based data-row indexes (the header row is not counted). Updates
// rewrite the file through a temp file and rename so an interrupted write
// never truncates the ledger.
type CsvLedgerStore struct {
	path string
}

func NewCsvLedgerStore(path string) (interfaces.LedgerStore, error) {
	store := &CsvLedgerStore{path: path}
	if err := store.ensureFile(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *CsvLedgerStore) ensureFile() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	f, err := os.Create(s.path)
	if err != nil {
		return errors.Wrap(err, "failed to create ledger file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ledgerHeader); err != nil {
		return errors.Wrap(err, "failed to write ledger header")
	}
	w.Flush()
	return w.Error()
}

func (s *CsvLedgerStore) ReadAll(ctx context.Context) ([]models.LedgerRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "CsvLedgerStore.ReadAll")
	defer span.Finish()
	tracing.SetDefaultLedgerStoreSpanTags(ctx, span)

	f, err := os.Open(s.path)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to open ledger file")
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to read ledger file")
	}

	records := make([]models.LedgerRecord, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		records = append(records, rowToRecord(row))
	}
	return records, nil
}

func (s *CsvLedgerStore) Append(ctx context.Context, record models.LedgerRecord) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "CsvLedgerStore.Append")
	defer span.Finish()
	tracing.SetDefaultLedgerStoreSpanTags(ctx, span)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to open ledger file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(recordToRow(record)); err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to append ledger row")
	}
	w.Flush()
	return w.Error()
}

func (s *CsvLedgerStore) Update(ctx context.Context, position int, record models.LedgerRecord) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "CsvLedgerStore.Update")
	defer span.Finish()
	tracing.SetDefaultLedgerStoreSpanTags(ctx, span)

	f, err := os.Open(s.path)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to open ledger file")
	}
	rows, err := csv.NewReader(f).ReadAll()
	f.Close()
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to read ledger file")
	}

	rowIndex := position + 1 // skip header
	if rowIndex < 1 || rowIndex >= len(rows) {
		tracing.TraceErr(span, ErrPositionOutOfRange)
		return ErrPositionOutOfRange
	}
	rows[rowIndex] = recordToRow(record)

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "ledger-*.csv")
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to create temp ledger file")
	}
	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to write ledger rows")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to close temp ledger file")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to replace ledger file")
	}
	return nil
}

func recordToRow(record models.LedgerRecord) []string {
	return []string{
		record.Timestamp.Format(time.RFC3339),
		record.MessageID,
		record.Subject,
		record.Company,
		record.InvoiceFilename,
		record.DotFilename,
		record.Status.String(),
		record.Error,
	}
}

func rowToRecord(row []string) models.LedgerRecord {
	// Tolerate short rows from hand-edited files.
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	timestamp, _ := time.Parse(time.RFC3339, get(0))
	return models.LedgerRecord{
		Timestamp:       timestamp,
		MessageID:       get(1),
		Subject:         get(2),
		Company:         get(3),
		InvoiceFilename: get(4),
		DotFilename:     get(5),
		Status:          enum.RecordStatus(get(6)),
		Error:           get(7),
	}
}
