package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofleetadvisor/invoicestack/config"
	"github.com/gofleetadvisor/invoicestack/dto"
	"github.com/gofleetadvisor/invoicestack/internal/enum"
	"github.com/gofleetadvisor/invoicestack/internal/models"
)

func newService(url string) *extractionService {
	svc := NewExtractionService(&config.ExtractionConfig{
		Url:            url,
		ApiKey:         "test-key",
		Model:          "gpt-3.5-turbo",
		TimeoutSeconds: 5,
	})
	return svc.(*extractionService)
}

func collaborator(t *testing.T, fields map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var request dto.ExtractFieldsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		require.Len(t, request.Messages, 2)
		assert.Equal(t, "system", request.Messages[0].Role)

		content, err := json.Marshal(fields)
		require.NoError(t, err)

		response := dto.ExtractFieldsResponse{}
		response.Choices = []dto.ExtractFieldsChoice{
			{Message: dto.ChatMessage{Role: "assistant", Content: string(content)}},
		}
		json.NewEncoder(w).Encode(response)
	}))
}

func TestExtractVehicleFields_Ok(t *testing.T) {
	server := collaborator(t, map[string]string{
		"unit":  "7751",
		"vin":   "1FTFW1ET5DFC10312",
		"plate": "ABC1234",
	})
	defer server.Close()
	svc := newService(server.URL)

	fields, err := svc.ExtractVehicleFields(context.Background(), "some invoice text")

	require.NoError(t, err)
	assert.Equal(t, enum.ExtractionOk, fields.Outcome)
	assert.Equal(t, "7751", fields.Unit)
	assert.Equal(t, "1FTFW1ET5DFC10312", fields.VIN)
	assert.Equal(t, "ABC1234", fields.Plate)
}

func TestExtractVehicleFields_NormalizesValues(t *testing.T) {
	server := collaborator(t, map[string]string{
		"unit":  " 77 51 ",
		"vin":   "1ftfw1et5dfc10312",
		"plate": "",
	})
	defer server.Close()
	svc := newService(server.URL)

	fields, err := svc.ExtractVehicleFields(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, "7751", fields.Unit)
	assert.Equal(t, "1FTFW1ET5DFC10312", fields.VIN)
	assert.Equal(t, models.SentinelNA, fields.Plate)
}

func TestExtractVehicleFields_BackfillsUnitFromVin(t *testing.T) {
	server := collaborator(t, map[string]string{
		"unit":  "NA",
		"vin":   "1FTFW1ET5DFC10312",
		"plate": "ABC1234",
	})
	defer server.Close()
	svc := newService(server.URL)

	fields, err := svc.ExtractVehicleFields(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, "DFC10312", fields.Unit)
}

func TestExtractVehicleFields_NoBackfillWithoutVin(t *testing.T) {
	server := collaborator(t, map[string]string{
		"unit":  "",
		"vin":   "",
		"plate": "ABC1234",
	})
	defer server.Close()
	svc := newService(server.URL)

	fields, err := svc.ExtractVehicleFields(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, models.SentinelNA, fields.Unit)
	assert.Equal(t, models.SentinelNA, fields.VIN)
}

func TestExtractVehicleFields_CollaboratorErrorDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()
	svc := newService(server.URL)

	fields, err := svc.ExtractVehicleFields(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, enum.ExtractionDegraded, fields.Outcome)
	assert.Equal(t, models.SentinelNA, fields.Unit)
	assert.Equal(t, models.SentinelNA, fields.VIN)
	assert.Equal(t, models.SentinelNA, fields.Plate)
	assert.Contains(t, fields.Reason, "429")
}

func TestExtractVehicleFields_NonJsonContentDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := dto.ExtractFieldsResponse{}
		response.Choices = []dto.ExtractFieldsChoice{
			{Message: dto.ChatMessage{Role: "assistant", Content: "sorry, I cannot help with that"}},
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()
	svc := newService(server.URL)

	fields, err := svc.ExtractVehicleFields(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, enum.ExtractionDegraded, fields.Outcome)
}

func TestExtractVehicleFields_CancelledContextErrors(t *testing.T) {
	svc := newService("http://localhost:0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ExtractVehicleFields(ctx, "text")

	assert.Error(t, err)
}
