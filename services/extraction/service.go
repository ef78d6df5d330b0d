package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/gofleetadvisor/invoicestack/config"
	"github.com/gofleetadvisor/invoicestack/dto"
	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/internal/enum"
	"github.com/gofleetadvisor/invoicestack/internal/models"
	"github.com/gofleetadvisor/invoicestack/internal/tracing"
)

// The prompt is fixed and deterministic: exactly three fields, uppercased,
// whitespace-stripped, "NA" when not found, JSON only.
const systemPrompt = `Extract vehicle information from invoice text. Return JSON with exactly these keys:
- unit: The unit number (uppercase, no spaces) or "NA" if not found
- vin: The VIN number (17 characters, uppercase, no spaces) or "NA" if not found
- plate: The plate/license number (uppercase, no spaces) or "NA" if not found

Remove all whitespace and convert to uppercase. Return ONLY valid JSON.`

type extractionService struct {
	cfg    *config.ExtractionConfig
	client *http.Client
}

func NewExtractionService(cfg *config.ExtractionConfig) interfaces.ExtractionService {
	return &extractionService{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// ExtractVehicleFields asks the collaborator for unit/VIN/plate. Collaborator
// failure of any kind degrades to all-sentinel fields instead of erroring:
// a bad extraction only lowers the quality of the synthesized filename, it
// must never fail the message.
func (s *extractionService) ExtractVehicleFields(ctx context.Context, invoiceText string) (models.VehicleFields, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "extractionService.ExtractVehicleFields")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if err := ctx.Err(); err != nil {
		return models.DegradedVehicleFields("context cancelled"), err
	}

	payload, err := s.callCollaborator(ctx, span, invoiceText)
	if err != nil {
		tracing.TraceErr(span, err)
		return models.DegradedVehicleFields(err.Error()), nil
	}

	fields := models.VehicleFields{
		Unit:    normalizeField(payload.Unit),
		VIN:     normalizeField(payload.Vin),
		Plate:   normalizeField(payload.Plate),
		Outcome: enum.ExtractionOk,
	}

	// Backfill the unit from the VIN tail when the collaborator found a VIN
	// but no unit.
	if (fields.Unit == models.SentinelNA || fields.Unit == "") &&
		fields.VIN != models.SentinelNA && len(fields.VIN) >= 8 {
		fields.Unit = fields.VIN[len(fields.VIN)-8:]
	}

	tracing.LogObjectAsJson(span, "fields", fields)
	return fields, nil
}

func (s *extractionService) callCollaborator(ctx context.Context, span opentracing.Span, invoiceText string) (*dto.VehicleFieldsPayload, error) {
	request := dto.ExtractFieldsRequest{
		Model: s.cfg.Model,
		Messages: []dto.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: invoiceText},
		},
		Temperature:    0,
		ResponseFormat: &dto.ResponseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.Url, bytes.NewBuffer(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.ApiKey)
	tracing.InjectSpanContextIntoHTTPRequest(req, span)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed with status code %d: %s", resp.StatusCode, string(responseBody))
	}

	var response dto.ExtractFieldsResponse
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}
	if len(response.Choices) == 0 {
		return nil, errors.New("response has no choices")
	}

	var payload dto.VehicleFieldsPayload
	if err := json.Unmarshal([]byte(response.Choices[0].Message.Content), &payload); err != nil {
		return nil, errors.Wrap(err, "collaborator returned non-JSON content")
	}

	return &payload, nil
}

func normalizeField(value string) string {
	normalized := strings.TrimSpace(strings.ReplaceAll(strings.ToUpper(value), " ", ""))
	if normalized == "" {
		return models.SentinelNA
	}
	return normalized
}
