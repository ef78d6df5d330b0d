package storage

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/opentracing/opentracing-go"

	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/internal/tracing"
	"github.com/gofleetadvisor/invoicestack/services/storage/aws_client"
)

// ObjectStorageService implements StorageService for one bucket using S3Client
type ObjectStorageService struct {
	client     aws_client.S3Client
	bucketName string
}

// NewStorageService creates an object storage service bound to a bucket
func NewStorageService(client aws_client.S3Client, bucketName string) interfaces.StorageService {
	return &ObjectStorageService{
		client:     client,
		bucketName: bucketName,
	}
}

// Exists reports whether an object of exactly this key is already stored.
// The pipeline uses it as the upload dedup gate.
func (s *ObjectStorageService) Exists(ctx context.Context, key string) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ObjectStorageService.Exists")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	exists, err := s.client.Head(ctx, s.bucketName, key)
	if err != nil {
		tracing.TraceErr(span, err)
		return false, err
	}
	return exists, nil
}

// Upload stores data in object storage
func (s *ObjectStorageService) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ObjectStorageService.Upload")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	uploadInput := s3manager.UploadInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	err := s.client.Upload(ctx, uploadInput)
	if err != nil {
		tracing.TraceErr(span, err)
	}
	return err
}

// Download retrieves data from object storage
func (s *ObjectStorageService) Download(ctx context.Context, key string) ([]byte, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ObjectStorageService.Download")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	content, err := s.client.Download(ctx, s.bucketName, key)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return content, nil
}
