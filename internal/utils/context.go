package utils

import "context"

type contextKey string

const runIdContextKey contextKey = "run-id"

// WithRunId stamps a pipeline run identifier on the context so spans and
// logs from every collaborator call can be correlated to one run.
func WithRunId(ctx context.Context, runId string) context.Context {
	return context.WithValue(ctx, runIdContextKey, runId)
}

func GetRunIdFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(runIdContextKey).(string); ok {
		return v
	}
	return ""
}
