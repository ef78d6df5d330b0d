package ledger

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofleetadvisor/invoicestack/internal/enum"
	"github.com/gofleetadvisor/invoicestack/internal/logger"
	"github.com/gofleetadvisor/invoicestack/internal/models"
)

type memoryStore struct {
	rows []models.LedgerRecord
}

func (s *memoryStore) ReadAll(ctx context.Context) ([]models.LedgerRecord, error) {
	out := make([]models.LedgerRecord, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *memoryStore) Append(ctx context.Context, record models.LedgerRecord) error {
	s.rows = append(s.rows, record)
	return nil
}

func (s *memoryStore) Update(ctx context.Context, position int, record models.LedgerRecord) error {
	if position < 0 || position >= len(s.rows) {
		return errors.New("position out of range")
	}
	s.rows[position] = record
	return nil
}

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func newLedger(t *testing.T, store *memoryStore) *ledgerService {
	t.Helper()
	svc := NewLedgerService(getLogger(), store).(*ledgerService)
	require.NoError(t, svc.Init(context.Background()))
	return svc
}

func TestIsProcessed(t *testing.T) {
	store := &memoryStore{rows: []models.LedgerRecord{
		{MessageID: "done", Status: enum.RecordStatusSuccess},
		{MessageID: "broken", Status: enum.RecordStatusFailed},
	}}
	svc := newLedger(t, store)

	assert.True(t, svc.IsProcessed("done"))
	assert.False(t, svc.IsProcessed("broken"))
	assert.False(t, svc.IsProcessed("never-seen"))
}

func TestRecord_AppendsNewRow(t *testing.T) {
	store := &memoryStore{}
	svc := newLedger(t, store)

	err := svc.Record(context.Background(), models.LedgerRecord{
		MessageID: "m1",
		Subject:   "Invoice 42",
		Status:    enum.RecordStatusSuccess,
	})

	require.NoError(t, err)
	require.Len(t, store.rows, 1)
	assert.Equal(t, "m1", store.rows[0].MessageID)
	assert.False(t, store.rows[0].Timestamp.IsZero())
	assert.True(t, svc.IsProcessed("m1"))
}

func TestRecord_OverwritesExistingRowInPlace(t *testing.T) {
	store := &memoryStore{rows: []models.LedgerRecord{
		{MessageID: "m1", Status: enum.RecordStatusFailed, Error: "first attempt"},
		{MessageID: "m2", Status: enum.RecordStatusSuccess},
	}}
	svc := newLedger(t, store)

	err := svc.Record(context.Background(), models.LedgerRecord{
		MessageID: "m1",
		Status:    enum.RecordStatusSuccess,
	})

	require.NoError(t, err)
	// same row count, same position, most recent attempt wins
	require.Len(t, store.rows, 2)
	assert.Equal(t, enum.RecordStatusSuccess, store.rows[0].Status)
	assert.Empty(t, store.rows[0].Error)
	assert.True(t, svc.IsProcessed("m1"))
}

func TestRecord_TruncatesSubjectAndError(t *testing.T) {
	store := &memoryStore{}
	svc := newLedger(t, store)

	err := svc.Record(context.Background(), models.LedgerRecord{
		MessageID: "m1",
		Subject:   strings.Repeat("s", 500),
		Error:     strings.Repeat("e", 500),
		Status:    enum.RecordStatusFailed,
	})

	require.NoError(t, err)
	assert.Len(t, store.rows[0].Subject, 100)
	assert.Len(t, store.rows[0].Error, 200)
}

func TestRecord_DefaultsDotFilenamePlaceholder(t *testing.T) {
	store := &memoryStore{}
	svc := newLedger(t, store)

	err := svc.Record(context.Background(), models.LedgerRecord{
		MessageID: "m1",
		Status:    enum.RecordStatusSuccess,
	})

	require.NoError(t, err)
	assert.Equal(t, models.NoDotFile, store.rows[0].DotFilename)
}

func TestRecord_RequiresMessageId(t *testing.T) {
	svc := newLedger(t, &memoryStore{})

	err := svc.Record(context.Background(), models.LedgerRecord{})

	assert.Error(t, err)
}
