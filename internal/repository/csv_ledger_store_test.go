package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofleetadvisor/invoicestack/internal/enum"
	"github.com/gofleetadvisor/invoicestack/internal/models"
)

func newStore(t *testing.T) (*CsvLedgerStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.csv")
	store, err := NewCsvLedgerStore(path)
	require.NoError(t, err)
	return store.(*CsvLedgerStore), path
}

func sampleRecord(messageId string) models.LedgerRecord {
	return models.LedgerRecord{
		Timestamp:       time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		MessageID:       messageId,
		Subject:         "Fleet Advisor Invoice 4521",
		Company:         "acme-corp",
		InvoiceFilename: "acme-corp__I-4521__U-7751__V-NA__D-03152026__P-NA.pdf",
		DotFilename:     models.NoDotFile,
		Status:          enum.RecordStatusSuccess,
	}
}

func TestNewCsvLedgerStore_CreatesFileWithHeader(t *testing.T) {
	_, path := newStore(t)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "timestamp,message_id,subject,company,invoice_filename,dot_filename,status,error"))
}

func TestNewCsvLedgerStore_KeepsExistingFile(t *testing.T) {
	store, path := newStore(t)
	require.NoError(t, store.Append(context.Background(), sampleRecord("m1")))

	// reopening must not truncate
	reopened, err := NewCsvLedgerStore(path)
	require.NoError(t, err)

	records, err := reopened.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAppendAndReadAllRoundTrip(t *testing.T) {
	store, _ := newStore(t)

	require.NoError(t, store.Append(context.Background(), sampleRecord("m1")))
	require.NoError(t, store.Append(context.Background(), sampleRecord("m2")))

	records, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "m1", records[0].MessageID)
	assert.Equal(t, "m2", records[1].MessageID)
	assert.Equal(t, "acme-corp", records[0].Company)
	assert.Equal(t, enum.RecordStatusSuccess, records[0].Status)
	assert.True(t, records[0].Timestamp.Equal(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)))
}

func TestUpdate_ReplacesRowAtPosition(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.Append(context.Background(), sampleRecord("m1")))
	require.NoError(t, store.Append(context.Background(), sampleRecord("m2")))

	updated := sampleRecord("m1")
	updated.Status = enum.RecordStatusFailed
	updated.Error = "upload failed"
	require.NoError(t, store.Update(context.Background(), 0, updated))

	records, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, enum.RecordStatusFailed, records[0].Status)
	assert.Equal(t, "upload failed", records[0].Error)
	// the other row is untouched
	assert.Equal(t, "m2", records[1].MessageID)
	assert.Equal(t, enum.RecordStatusSuccess, records[1].Status)
}

func TestUpdate_RejectsOutOfRangePosition(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.Append(context.Background(), sampleRecord("m1")))

	err := store.Update(context.Background(), 5, sampleRecord("m1"))
	assert.ErrorIs(t, err, ErrPositionOutOfRange)

	err = store.Update(context.Background(), -1, sampleRecord("m1"))
	assert.ErrorIs(t, err, ErrPositionOutOfRange)
}

func TestReadAll_ToleratesFieldsWithCommasAndNewlines(t *testing.T) {
	store, _ := newStore(t)
	record := sampleRecord("m1")
	record.Subject = `Acme, "Fleet" Invoice`
	record.Error = "line one\nline two"
	require.NoError(t, store.Append(context.Background(), record))

	records, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, `Acme, "Fleet" Invoice`, records[0].Subject)
	assert.Equal(t, "line one\nline two", records[0].Error)
}
