package enum

type RecordStatus string

const (
	RecordStatusSuccess    RecordStatus = "success"
	RecordStatusFailed     RecordStatus = "failed"
	RecordStatusProcessing RecordStatus = "processing"
)

func (t RecordStatus) String() string {
	return string(t)
}

type ExtractionOutcome string

const (
	// ExtractionOk means the collaborator answered and the fields are its own.
	ExtractionOk ExtractionOutcome = "ok"
	// ExtractionDegraded means the collaborator failed and every field was
	// replaced with the NA sentinel. The message is still processed.
	ExtractionDegraded ExtractionOutcome = "degraded"
)

func (t ExtractionOutcome) String() string {
	return string(t)
}
