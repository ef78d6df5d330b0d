package models

// RunSummary is the end-of-run accounting for one pipeline pass.
type RunSummary struct {
	RunID     string
	Total     int
	Processed int
	Skipped   int
	Failed    int
}
