package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gofleetadvisor/invoicestack/config"
	"github.com/gofleetadvisor/invoicestack/internal/enum"
	"github.com/gofleetadvisor/invoicestack/internal/models"
)

func newClassifier() *classifierService {
	svc := NewClassifierService(&config.PipelineConfig{
		InvoiceMarker: "invoice",
		BusinessToken: "fleet",
		SenderDomain:  "gofleetadvisor.com",
	})
	return svc.(*classifierService)
}

func processableMessage() *models.Message {
	return &models.Message{
		ID:       "m1",
		ThreadID: "m1",
		Subject:  "Fleet Advisor Invoice 1042",
		From:     "Billing <billing@gofleetadvisor.com>",
		Attachments: []models.Attachment{
			{ID: "a1", Filename: "Invoice-1042.pdf"},
		},
	}
}

func TestClassify_Process(t *testing.T) {
	svc := newClassifier()

	decision := svc.Classify(context.Background(), processableMessage())

	assert.Equal(t, enum.RouteProcess, decision.Route)
}

func TestClassify_ReplyWinsOverEverything(t *testing.T) {
	// A reply is redirected even when it would also fail later predicates.
	svc := newClassifier()
	message := processableMessage()
	message.Subject = "Re: something unrelated"
	message.LabelIDs = []string{"INBOX", "Label_7"}
	message.Attachments = nil

	decision := svc.Classify(context.Background(), message)

	assert.Equal(t, enum.RouteRedirectReply, decision.Route)
	assert.Equal(t, []string{"INBOX", "Label_7"}, decision.Labels)
}

func TestClassify_SubjectLacksMarker(t *testing.T) {
	svc := newClassifier()

	message := processableMessage()
	message.Subject = "Fleet maintenance schedule"
	decision := svc.Classify(context.Background(), message)
	assert.Equal(t, enum.RouteRedirectOther, decision.Route)

	message = processableMessage()
	message.Subject = "Invoice 1042"
	decision = svc.Classify(context.Background(), message)
	assert.Equal(t, enum.RouteRedirectOther, decision.Route)
}

func TestClassify_ThreadFollowUpSkipped(t *testing.T) {
	svc := newClassifier()
	message := processableMessage()
	message.ThreadID = "m0"

	decision := svc.Classify(context.Background(), message)

	assert.Equal(t, enum.RouteSkip, decision.Route)
}

func TestClassify_WrongSenderDomainSkipped(t *testing.T) {
	svc := newClassifier()
	message := processableMessage()
	message.From = "billing@othervendor.com"

	decision := svc.Classify(context.Background(), message)

	assert.Equal(t, enum.RouteSkip, decision.Route)
}

func TestClassify_NoInvoiceAttachmentSkipped(t *testing.T) {
	svc := newClassifier()
	message := processableMessage()
	message.Attachments = []models.Attachment{
		{ID: "a1", Filename: "receipt.pdf"},
		{ID: "a2", Filename: "invoice.png"},
	}

	decision := svc.Classify(context.Background(), message)

	assert.Equal(t, enum.RouteSkip, decision.Route)
}

func TestClassify_AttachmentMatchIsCaseInsensitive(t *testing.T) {
	svc := newClassifier()
	message := processableMessage()
	message.Attachments = []models.Attachment{
		{ID: "a1", Filename: "INVOICE_77.PDF"},
	}

	decision := svc.Classify(context.Background(), message)

	assert.Equal(t, enum.RouteProcess, decision.Route)
}
