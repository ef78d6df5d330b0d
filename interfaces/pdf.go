package interfaces

import "context"

// PDFService is the PDF utility boundary: plain-text extraction for the
// field extractor and merging for the supporting-document bundle.
type PDFService interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
	Merge(ctx context.Context, documents [][]byte) ([]byte, error)
}
