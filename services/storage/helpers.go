package storage

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"

	"github.com/gofleetadvisor/invoicestack/config"
	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/services/storage/aws_client"
)

// NewBucketServices builds one StorageService per bucket the pipeline writes
// to, sharing a single client. A custom endpoint switches to path-style
// addressing for S3-compatible stores.
func NewBucketServices(cfg *config.StorageConfig) (invoices, dots interfaces.StorageService) {
	awsConfig := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.AccessKeySecret, ""),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	client := aws_client.NewS3Client(awsConfig)

	return NewStorageService(client, cfg.InvoiceBucket), NewStorageService(client, cfg.DotBucket)
}
