package gmail

import (
	"context"
	"encoding/base64"
	"os"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/gofleetadvisor/invoicestack/config"
	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/internal/models"
	"github.com/gofleetadvisor/invoicestack/internal/tracing"
)

const mailboxUser = "me"

type gmailService struct {
	api      *gmailapi.Service
	pageSize int64
}

// NewGmailService builds a MailboxService over the Gmail REST API using a
// domain-delegated service account impersonating the intake address.
func NewGmailService(ctx context.Context, cfg *config.GmailConfig) (interfaces.MailboxService, error) {
	keyData, err := os.ReadFile(cfg.ServiceAccountFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read service account file")
	}

	jwtConfig, err := google.JWTConfigFromJSON(keyData, gmailapi.GmailReadonlyScope, gmailapi.GmailModifyScope)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse service account credentials")
	}
	jwtConfig.Subject = cfg.ImpersonateAddress

	api, err := gmailapi.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gmail client")
	}

	return &gmailService{
		api:      api,
		pageSize: cfg.PageSize,
	}, nil
}

func (s *gmailService) ListInbox(ctx context.Context, pageToken string) ([]string, string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "gmailService.ListInbox")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	call := s.api.Users.Messages.List(mailboxUser).
		LabelIds("INBOX").
		MaxResults(s.pageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, "", errors.Wrap(err, "failed to list inbox")
	}

	ids := make([]string, 0, len(response.Messages))
	for _, m := range response.Messages {
		ids = append(ids, m.Id)
	}
	return ids, response.NextPageToken, nil
}

func (s *gmailService) GetMessage(ctx context.Context, messageId string) (*models.Message, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "gmailService.GetMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMessage(span, messageId)

	raw, err := s.api.Users.Messages.Get(mailboxUser, messageId).Format("full").Context(ctx).Do()
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to get message")
	}

	return mapMessage(raw), nil
}

func (s *gmailService) GetAttachment(ctx context.Context, messageId, attachmentId string) ([]byte, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "gmailService.GetAttachment")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMessage(span, messageId)

	attachment, err := s.api.Users.Messages.Attachments.Get(mailboxUser, messageId, attachmentId).Context(ctx).Do()
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to get attachment")
	}

	data, err := decodeBase64Url(attachment.Data)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to decode attachment data")
	}
	return data, nil
}

func (s *gmailService) ModifyLabels(ctx context.Context, messageId string, addLabelIds, removeLabelIds []string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "gmailService.ModifyLabels")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMessage(span, messageId)

	_, err := s.api.Users.Messages.Modify(mailboxUser, messageId, &gmailapi.ModifyMessageRequest{
		AddLabelIds:    addLabelIds,
		RemoveLabelIds: removeLabelIds,
	}).Context(ctx).Do()
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to modify labels")
	}
	return nil
}

func (s *gmailService) ListLabels(ctx context.Context) (map[string]string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "gmailService.ListLabels")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	response, err := s.api.Users.Labels.List(mailboxUser).Context(ctx).Do()
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to list labels")
	}

	labels := make(map[string]string, len(response.Labels))
	for _, label := range response.Labels {
		labels[label.Name] = label.Id
	}
	return labels, nil
}

func (s *gmailService) CreateLabel(ctx context.Context, name string) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "gmailService.CreateLabel")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	label, err := s.api.Users.Labels.Create(mailboxUser, &gmailapi.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	if err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to create label")
	}
	return label.Id, nil
}

func mapMessage(raw *gmailapi.Message) *models.Message {
	message := &models.Message{
		ID:       raw.Id,
		ThreadID: raw.ThreadId,
		LabelIDs: raw.LabelIds,
	}

	if raw.Payload == nil {
		return message
	}

	for _, h := range raw.Payload.Headers {
		message.Headers = append(message.Headers, models.Header{Name: h.Name, Value: h.Value})
	}
	message.Subject = message.Header("Subject")
	message.From = message.Header("From")

	collectPart(message, raw.Payload)
	for _, part := range raw.Payload.Parts {
		collectPart(message, part)
		// one level of nested multipart, same depth the classifier checks
		for _, subpart := range part.Parts {
			collectPart(message, subpart)
		}
	}

	return message
}

func collectPart(message *models.Message, part *gmailapi.MessagePart) {
	if part == nil || part.Body == nil {
		return
	}

	if part.Filename != "" {
		if part.Body.AttachmentId != "" {
			message.Attachments = append(message.Attachments, models.Attachment{
				ID:       part.Body.AttachmentId,
				Filename: part.Filename,
				Size:     part.Body.Size,
			})
		}
		return
	}

	if part.Body.Data == "" {
		return
	}

	switch part.MimeType {
	case "text/plain":
		if message.BodyText == "" {
			if data, err := decodeBase64Url(part.Body.Data); err == nil {
				message.BodyText = string(data)
			}
		}
	case "text/html":
		if message.BodyHTML == "" {
			if data, err := decodeBase64Url(part.Body.Data); err == nil {
				message.BodyHTML = string(data)
			}
		}
	}
}

// Gmail pads inconsistently, so try both URL-safe alphabets.
func decodeBase64Url(data string) ([]byte, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err == nil {
		return decoded, nil
	}
	return base64.RawURLEncoding.DecodeString(data)
}
