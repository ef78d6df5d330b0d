package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/customeros/mailsherpa/mailvalidate"
	"github.com/opentracing/opentracing-go"

	"github.com/gofleetadvisor/invoicestack/config"
	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/internal/enum"
	"github.com/gofleetadvisor/invoicestack/internal/models"
	"github.com/gofleetadvisor/invoicestack/internal/tracing"
	"github.com/gofleetadvisor/invoicestack/internal/utils"
)

const pdfExtension = ".pdf"

type classifierService struct {
	invoiceMarker string
	businessToken string
	senderDomain  string
}

func NewClassifierService(cfg *config.PipelineConfig) interfaces.ClassifierService {
	return &classifierService{
		invoiceMarker: strings.ToLower(cfg.InvoiceMarker),
		businessToken: strings.ToLower(cfg.BusinessToken),
		senderDomain:  strings.ToLower(cfg.SenderDomain),
	}
}

// Classify runs the routing predicates in order; the first that fires wins.
// The reply check deliberately precedes every other check so replies are
// redirected even when they would also fail a later predicate.
func (s *classifierService) Classify(ctx context.Context, message *models.Message) models.ClassificationDecision {
	span, _ := opentracing.StartSpanFromContext(ctx, "classifierService.Classify")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMessage(span, message.ID)

	subject := strings.ToLower(message.Subject)

	if strings.HasPrefix(subject, "re:") {
		return models.ClassificationDecision{
			Route:  enum.RouteRedirectReply,
			Reason: "subject is a reply",
			Labels: message.LabelIDs,
		}
	}

	if !strings.Contains(subject, s.invoiceMarker) || !strings.Contains(subject, s.businessToken) {
		return models.ClassificationDecision{
			Route: enum.RouteRedirectOther,
			Reason: fmt.Sprintf("subject lacks %q or %q marker",
				s.invoiceMarker, s.businessToken),
		}
	}

	if message.ThreadID != message.ID {
		return models.ClassificationDecision{
			Route:  enum.RouteSkip,
			Reason: "not the first message in its thread",
		}
	}

	if !s.senderDomainMatches(message.From) {
		return models.ClassificationDecision{
			Route:  enum.RouteSkip,
			Reason: fmt.Sprintf("sender not in domain %q", s.senderDomain),
		}
	}

	if !s.hasInvoiceAttachment(message) {
		return models.ClassificationDecision{
			Route:  enum.RouteSkip,
			Reason: "no invoice PDF attachment",
		}
	}

	return models.ClassificationDecision{Route: enum.RouteProcess, Reason: "ok"}
}

func (s *classifierService) senderDomainMatches(from string) bool {
	address := utils.ExtractAddressFromHeader(from)
	if address == "" {
		return false
	}

	syntax := mailvalidate.ValidateEmailSyntax(address)
	if syntax.IsValid {
		return strings.EqualFold(syntax.Domain, s.senderDomain)
	}
	// fall back to a plain split when the address does not parse
	return utils.ExtractDomainFromEmail(address) == s.senderDomain
}

func (s *classifierService) hasInvoiceAttachment(message *models.Message) bool {
	for _, attachment := range message.Attachments {
		filename := strings.ToLower(attachment.Filename)
		if strings.HasPrefix(filename, s.invoiceMarker) && strings.HasSuffix(filename, pdfExtension) {
			return true
		}
	}
	return false
}
