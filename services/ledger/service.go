package ledger

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/internal/enum"
	"github.com/gofleetadvisor/invoicestack/internal/logger"
	"github.com/gofleetadvisor/invoicestack/internal/models"
	"github.com/gofleetadvisor/invoicestack/internal/tracing"
	"github.com/gofleetadvisor/invoicestack/internal/utils"
)

const (
	maxSubjectLen = 100
	maxErrorLen   = 200
)

type ledgerService struct {
	log   logger.Logger
	store interfaces.LedgerStore

	records []models.LedgerRecord
	// index maps message id to row position; kept in sync with every write
	// so repeated lookups within a run stay O(1).
	index map[string]int
}

func NewLedgerService(log logger.Logger, store interfaces.LedgerStore) interfaces.LedgerService {
	return &ledgerService{
		log:   log,
		store: store,
		index: map[string]int{},
	}
}

func (s *ledgerService) Init(ctx context.Context) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ledgerService.Init")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	records, err := s.store.ReadAll(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to load ledger")
	}

	s.records = records
	s.index = make(map[string]int, len(records))
	for position, record := range records {
		// later rows win, though a well-formed ledger has one row per id
		s.index[record.MessageID] = position
	}

	s.log.Infof("ledger loaded with %d records", len(s.records))
	return nil
}

func (s *ledgerService) IsProcessed(messageId string) bool {
	position, ok := s.index[messageId]
	if !ok {
		return false
	}
	return s.records[position].Status == enum.RecordStatusSuccess
}

func (s *ledgerService) Record(ctx context.Context, record models.LedgerRecord) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ledgerService.Record")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMessage(span, record.MessageID)

	if record.MessageID == "" {
		return errors.New("ledger record without message id")
	}

	normalize(&record)

	if position, ok := s.index[record.MessageID]; ok {
		if err := s.store.Update(ctx, position, record); err != nil {
			tracing.TraceErr(span, err)
			return errors.Wrap(err, "failed to update ledger row")
		}
		s.records[position] = record
		return nil
	}

	if err := s.store.Append(ctx, record); err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to append ledger row")
	}
	s.records = append(s.records, record)
	s.index[record.MessageID] = len(s.records) - 1
	return nil
}

func normalize(record *models.LedgerRecord) {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	record.Subject = utils.Truncate(record.Subject, maxSubjectLen)
	record.Error = utils.Truncate(record.Error, maxErrorLen)
	if record.DotFilename == "" {
		record.DotFilename = models.NoDotFile
	}
}
