package aws_client

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/opentracing/opentracing-go"

	"github.com/gofleetadvisor/invoicestack/internal/tracing"
)

type S3Client interface {
	Upload(ctx context.Context, uploadContainer s3manager.UploadInput) error
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Head(ctx context.Context, bucket, key string) (bool, error)
	ListFiles(ctx context.Context, bucket string) ([]string, error)
}

type s3Client struct {
	Uploader   *s3manager.Uploader
	Downloader *s3manager.Downloader
	Config     *aws.Config
	Session    *session.Session
}

func NewS3Client(config *aws.Config) S3Client {
	s := session.Must(session.NewSession(config))
	return &s3Client{
		Uploader:   s3manager.NewUploader(s),
		Downloader: s3manager.NewDownloader(s),
		Config:     config,
		Session:    s,
	}
}

func (s *s3Client) Upload(ctx context.Context, uploadContainer s3manager.UploadInput) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "s3Client.Upload")
	defer span.Finish()

	_, err := s.Uploader.Upload(&uploadContainer)
	return err
}

func (s *s3Client) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "s3Client.Download")
	defer span.Finish()

	buffer := &aws.WriteAtBuffer{}
	_, err := s.Downloader.Download(buffer,
		&s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
	if err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

// Head reports whether an object with this exact key exists.
func (s *s3Client) Head(ctx context.Context, bucket, key string) (bool, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "s3Client.Head")
	defer span.Finish()

	svc := s3.New(s.Session)
	_, err := svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey, "NotFound":
				return false, nil
			}
		}
		return false, err
	}
	return true, nil
}

func (s *s3Client) ListFiles(ctx context.Context, bucket string) ([]string, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "s3Client.ListFiles")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	svc := s3.New(s.Session)

	var files []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}

	err := svc.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			if obj.Key != nil {
				files = append(files, *obj.Key)
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
