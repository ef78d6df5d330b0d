package models

import "github.com/gofleetadvisor/invoicestack/internal/enum"

// ClassificationDecision is the classifier's per-message routing verdict.
// Labels carries the message's current label ids for redirect-reply routing,
// where the orchestrator needs to know whether a sorted label already exists.
type ClassificationDecision struct {
	Route  enum.Route
	Reason string
	Labels []string
}
