package dto

// Chat-completions wire shapes for the field-extraction collaborator.

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

type ExtractFieldsRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type ExtractFieldsChoice struct {
	Message ChatMessage `json:"message"`
}

type ExtractFieldsResponse struct {
	Choices []ExtractFieldsChoice `json:"choices"`
}

// VehicleFieldsPayload is the JSON document the collaborator is asked to
// return: exactly unit, vin and plate with "NA" as the not-found sentinel.
type VehicleFieldsPayload struct {
	Unit  string `json:"unit"`
	Vin   string `json:"vin"`
	Plate string `json:"plate"`
}
