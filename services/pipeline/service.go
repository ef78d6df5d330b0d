package pipeline

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/gofleetadvisor/invoicestack/config"
	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/internal/enum"
	internalerrors "github.com/gofleetadvisor/invoicestack/internal/errors"
	"github.com/gofleetadvisor/invoicestack/internal/logger"
	"github.com/gofleetadvisor/invoicestack/internal/models"
	"github.com/gofleetadvisor/invoicestack/internal/tracing"
	"github.com/gofleetadvisor/invoicestack/internal/utils"
)

const (
	inboxLabelId   = "INBOX"
	pdfContentType = "application/pdf"
	emailDateForm  = "01022006" // MMDDYYYY
)

type outcome int

const (
	outcomeProcessed outcome = iota
	outcomeSkipped
	outcomeFailed
)

type pipelineService struct {
	cfg *config.PipelineConfig
	log logger.Logger

	mailbox        interfaces.MailboxService
	classifier     interfaces.ClassifierService
	resolver       interfaces.CompanyResolverService
	extractor      interfaces.ExtractionService
	pdf            interfaces.PDFService
	ledger         interfaces.LedgerService
	invoiceStorage interfaces.StorageService
	dotStorage     interfaces.StorageService

	sortedLabelId string
	reviewLabelId string

	// swapped out by tests; pacing real collaborators takes real time
	sleep func(time.Duration)
}

func NewPipelineService(
	cfg *config.PipelineConfig,
	log logger.Logger,
	mailbox interfaces.MailboxService,
	classifier interfaces.ClassifierService,
	resolver interfaces.CompanyResolverService,
	extractor interfaces.ExtractionService,
	pdf interfaces.PDFService,
	ledger interfaces.LedgerService,
	invoiceStorage interfaces.StorageService,
	dotStorage interfaces.StorageService,
) interfaces.PipelineService {
	return &pipelineService{
		cfg:            cfg,
		log:            log,
		mailbox:        mailbox,
		classifier:     classifier,
		resolver:       resolver,
		extractor:      extractor,
		pdf:            pdf,
		ledger:         ledger,
		invoiceStorage: invoiceStorage,
		dotStorage:     dotStorage,
		sleep:          time.Sleep,
	}
}

// Init loads the ledger and reference snapshot and resolves the mailbox
// labels the pipeline mutates. Called once per process start.
func (s *pipelineService) Init(ctx context.Context) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipelineService.Init")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if err := s.ledger.Init(ctx); err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	if err := s.resolver.Init(ctx); err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	var err error
	if s.sortedLabelId, err = s.ensureLabel(ctx, s.cfg.SortedLabel); err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	if s.reviewLabelId, err = s.ensureLabel(ctx, s.cfg.ReviewLabel); err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}

func (s *pipelineService) ensureLabel(ctx context.Context, name string) (string, error) {
	labels, err := s.mailbox.ListLabels(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to list labels")
	}
	if id, ok := labels[name]; ok {
		return id, nil
	}
	id, err := s.mailbox.CreateLabel(ctx, name)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create label %q", name)
	}
	return id, nil
}

// Run pages through the whole inbox and handles every message not already
// recorded as success. One message's failure never aborts the batch.
func (s *pipelineService) Run(ctx context.Context, limit int) (models.RunSummary, error) {
	runId := uuid.New().String()
	ctx = utils.WithRunId(ctx, runId)

	span, ctx := tracing.StartTracerSpan(ctx, "pipelineService.Run")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	ids, err := s.listAllInbox(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return models.RunSummary{RunID: runId}, err
	}

	summary := models.RunSummary{RunID: runId, Total: len(ids)}
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	s.log.Infof("run %s: %d inbox messages, handling %d", runId, summary.Total, len(ids))

	handled := 0
	for i, id := range ids {
		if s.ledger.IsProcessed(id) {
			summary.Skipped++
			continue
		}

		result := s.handleMessage(ctx, id)
		switch result {
		case outcomeProcessed:
			summary.Processed++
		case outcomeSkipped:
			summary.Skipped++
			continue
		case outcomeFailed:
			summary.Failed++
		}

		handled++
		if i < len(ids)-1 {
			if handled%s.cfg.BatchSize == 0 {
				s.sleep(s.cfg.BatchDelay)
			} else {
				s.sleep(s.cfg.MessageDelay)
			}
		}
	}

	s.log.Infof("run %s complete: processed=%d skipped=%d failed=%d",
		runId, summary.Processed, summary.Skipped, summary.Failed)
	return summary, nil
}

// listAllInbox collects every page up front. A message id listed twice is a
// provider-contract violation, not something to silently dedup.
func (s *pipelineService) listAllInbox(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	pageToken := ""

	for {
		pageIds, nextPageToken, err := s.mailbox.ListInbox(ctx, pageToken)
		if err != nil {
			return nil, errors.Wrap(err, "failed to page inbox")
		}
		for _, id := range pageIds {
			if _, dup := seen[id]; dup {
				return nil, errors.Wrapf(internalerrors.ErrDuplicateMessageListed, "message %s", id)
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		if nextPageToken == "" {
			return ids, nil
		}
		pageToken = nextPageToken
	}
}

func (s *pipelineService) handleMessage(ctx context.Context, messageId string) (result outcome) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipelineService.handleMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMessage(span, messageId)

	// per-message isolation boundary
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while handling message: %v", r)
			tracing.TraceErr(span, err)
			s.log.Errorf("message %s: %v", messageId, err)
			s.writeRecord(ctx, models.LedgerRecord{
				MessageID: messageId,
				Status:    enum.RecordStatusFailed,
				Error:     err.Error(),
			})
			result = outcomeFailed
		}
	}()

	message, err := s.mailbox.GetMessage(ctx, messageId)
	if err != nil {
		tracing.TraceErr(span, err)
		s.writeRecord(ctx, models.LedgerRecord{
			MessageID: messageId,
			Status:    enum.RecordStatusFailed,
			Error:     err.Error(),
		})
		return outcomeFailed
	}

	decision := s.classifier.Classify(ctx, message)
	s.log.Debugf("message %s: %s (%s)", messageId, decision.Route, decision.Reason)

	switch decision.Route {
	case enum.RouteSkip:
		// skips never touch mailbox state or the ledger
		return outcomeSkipped
	case enum.RouteRedirectReply:
		return s.redirectReply(ctx, message, decision)
	case enum.RouteRedirectOther:
		return s.redirectOther(ctx, message, decision)
	}

	return s.processMessage(ctx, message)
}

// redirectReply moves a reply out of the inbox. When the sorted label is
// already on the thread the batch label is kept; either way only INBOX is
// removed. Terminal: recorded failed, never retried.
func (s *pipelineService) redirectReply(ctx context.Context, message *models.Message, decision models.ClassificationDecision) outcome {
	reason := "reply to a processed email"
	if utils.IsStringInSlice(s.sortedLabelId, decision.Labels) {
		reason = "reply on an already sorted thread"
	}

	if err := s.mailbox.ModifyLabels(ctx, message.ID, nil, []string{inboxLabelId}); err != nil {
		reason = reason + "; label mutation failed: " + err.Error()
	}

	s.writeRecord(ctx, models.LedgerRecord{
		MessageID: message.ID,
		Subject:   message.Subject,
		Status:    enum.RecordStatusFailed,
		Error:     reason,
	})
	return outcomeFailed
}

// redirectOther tags a non-invoice email for review and moves it out of the
// inbox. Terminal like redirectReply.
func (s *pipelineService) redirectOther(ctx context.Context, message *models.Message, decision models.ClassificationDecision) outcome {
	reason := decision.Reason

	if err := s.mailbox.ModifyLabels(ctx, message.ID, []string{s.reviewLabelId}, []string{inboxLabelId}); err != nil {
		reason = reason + "; label mutation failed: " + err.Error()
	}

	s.writeRecord(ctx, models.LedgerRecord{
		MessageID: message.ID,
		Subject:   message.Subject,
		Status:    enum.RecordStatusFailed,
		Error:     reason,
	})
	return outcomeFailed
}

func (s *pipelineService) processMessage(ctx context.Context, message *models.Message) outcome {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipelineService.processMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMessage(span, message.ID)

	fail := func(company, invoiceFile, dotFile, errText string) outcome {
		s.writeRecord(ctx, models.LedgerRecord{
			MessageID:       message.ID,
			Subject:         message.Subject,
			Company:         company,
			InvoiceFilename: invoiceFile,
			DotFilename:     dotFile,
			Status:          enum.RecordStatusFailed,
			Error:           errText,
		})
		return outcomeFailed
	}

	candidate, ok := s.resolver.CandidateFromMessage(ctx, message)
	company := ""
	if ok {
		company, ok = s.resolver.Resolve(ctx, candidate)
	}
	if !ok {
		return fail("", "", "", internalerrors.ErrCompanyNotFound.Error())
	}

	invoiceAttachment, supporting, err := SelectAttachments(s.cfg.InvoiceMarker, message.Attachments)
	if err != nil {
		return fail(company, "", "", err.Error())
	}
	invoiceNumber := ParseInvoiceNumber(s.cfg.InvoiceMarker, invoiceAttachment.Filename)

	invoiceData, err := s.mailbox.GetAttachment(ctx, message.ID, invoiceAttachment.ID)
	if err != nil {
		return fail(company, "", "", "failed to download invoice attachment: "+err.Error())
	}

	fields, err := s.extractFields(ctx, invoiceData)
	if err != nil {
		return fail(company, "", "", err.Error())
	}
	if fields.Outcome == enum.ExtractionDegraded {
		s.log.Warnf("message %s: degraded field extraction: %s", message.ID, fields.Reason)
	}

	extracted := &models.ExtractedInvoice{
		Company:       company,
		InvoiceNumber: invoiceNumber,
		Fields:        fields,
		EmailDate:     s.emailDate(message),
	}

	invoiceFilename := InvoiceFilename(extracted)
	dotFilename := ""
	if len(supporting) > 0 {
		dotFilename = DotFilename(extracted)
	}

	if err := s.uploadWithDedup(ctx, s.invoiceStorage, invoiceFilename, invoiceData); err != nil {
		return fail(company, invoiceFilename, dotFilename, "invoice upload failed: "+err.Error())
	}
	s.log.Infof("message %s: invoice %s", message.ID, invoiceFilename)

	if dotFilename != "" {
		merged, err := s.mergeSupporting(ctx, message.ID, supporting)
		if err != nil {
			return fail(company, invoiceFilename, dotFilename, err.Error())
		}
		if err := s.uploadWithDedup(ctx, s.dotStorage, dotFilename, merged); err != nil {
			return fail(company, invoiceFilename, dotFilename, "supporting bundle upload failed: "+err.Error())
		}
		s.log.Infof("message %s: dot %s", message.ID, dotFilename)
	}

	// Uploads are confirmed; only now is mailbox state touched. A label
	// failure keeps the message retryable and the dedup check absorbs the
	// repeated uploads.
	if err := s.mailbox.ModifyLabels(ctx, message.ID, []string{s.sortedLabelId}, []string{inboxLabelId}); err != nil {
		return fail(company, invoiceFilename, dotFilename, "label mutation failed: "+err.Error())
	}

	s.writeRecord(ctx, models.LedgerRecord{
		MessageID:       message.ID,
		Subject:         message.Subject,
		Company:         company,
		InvoiceFilename: invoiceFilename,
		DotFilename:     dotFilename,
		Status:          enum.RecordStatusSuccess,
	})
	return outcomeProcessed
}

// extractFields runs PDF text extraction and the field-extraction
// collaborator. Both degrade to sentinels; only context cancellation
// propagates as an error.
func (s *pipelineService) extractFields(ctx context.Context, invoiceData []byte) (models.VehicleFields, error) {
	text, err := s.pdf.ExtractText(ctx, invoiceData)
	if err != nil {
		return models.DegradedVehicleFields("pdf text extraction failed: " + err.Error()), nil
	}
	return s.extractor.ExtractVehicleFields(ctx, text)
}

func (s *pipelineService) mergeSupporting(ctx context.Context, messageId string, supporting []models.Attachment) ([]byte, error) {
	documents := make([][]byte, 0, len(supporting))
	for _, attachment := range supporting {
		data, err := s.mailbox.GetAttachment(ctx, messageId, attachment.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to download supporting attachment %q", attachment.Filename)
		}
		documents = append(documents, data)
	}

	merged, err := s.pdf.Merge(ctx, documents)
	if err != nil {
		return nil, errors.Wrap(err, "failed to merge supporting documents")
	}
	return merged, nil
}

// uploadWithDedup treats an already-existing object of the target name as
// success without issuing a write.
func (s *pipelineService) uploadWithDedup(ctx context.Context, store interfaces.StorageService, key string, data []byte) error {
	exists, err := store.Exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		s.log.Infof("object %s already stored, skipping upload", key)
		return nil
	}
	return store.Upload(ctx, key, data, pdfContentType)
}

// emailDate formats the Date header as MMDDYYYY, falling back to now when
// the header is absent or unparsable.
func (s *pipelineService) emailDate(message *models.Message) string {
	if dateHeader := message.Header("Date"); dateHeader != "" {
		if parsed, err := mail.ParseDate(dateHeader); err == nil {
			return parsed.Format(emailDateForm)
		}
	}
	return time.Now().Format(emailDateForm)
}

// writeRecord funnels every ledger write; a ledger write failure is logged
// and the batch continues.
func (s *pipelineService) writeRecord(ctx context.Context, record models.LedgerRecord) {
	if err := s.ledger.Record(ctx, record); err != nil {
		s.log.Errorf("failed to write ledger record for %s: %v", record.MessageID, err)
	}
}
