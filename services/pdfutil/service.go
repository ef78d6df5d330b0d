package pdfutil

import (
	"bytes"
	"context"
	"io"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/opentracing/opentracing-go"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pkg/errors"

	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/internal/tracing"
)

type pdfService struct{}

func NewPDFService() interfaces.PDFService {
	return &pdfService{}
}

// ExtractText returns the plain text of every page, concatenated.
func (s *pdfService) ExtractText(ctx context.Context, data []byte) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pdfService.ExtractText")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	reader, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to open pdf")
	}

	plainText, err := reader.GetPlainText()
	if err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to extract pdf text")
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plainText); err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to read pdf text")
	}
	return buf.String(), nil
}

// Merge concatenates the documents into one PDF, in the given order.
func (s *pdfService) Merge(ctx context.Context, documents [][]byte) ([]byte, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pdfService.Merge")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if len(documents) == 0 {
		return nil, errors.New("nothing to merge")
	}

	readers := make([]io.ReadSeeker, 0, len(documents))
	for _, doc := range documents {
		readers = append(readers, bytes.NewReader(doc))
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, nil); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to merge pdfs")
	}
	return out.Bytes(), nil
}
