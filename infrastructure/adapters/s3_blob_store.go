package adapters

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
)

type s3BlobStore struct {
	s3Svc  *s3.S3
	logger outbound.LoggerPort
}

func NewS3BlobStore(s3Svc *s3.S3, logger outbound.LoggerPort) outbound.BlobStorePort {
	return &s3BlobStore{
		s3Svc:  s3Svc,
		logger: logger,
	}
}

func (s *s3BlobStore) Put(ctx context.Context, bucket string, key string, body []byte, contentType string) error {
	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	}

	_, err := s.s3Svc.PutObjectWithContext(ctx, putInput)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload object to S3", map[string]interface{}{
			"bucket": bucket,
			"key":    key,
		})
		return err
	}

	s.logger.DebugWithFields("Uploaded object to S3", map[string]interface{}{
		"bucket": bucket,
		"key":    key,
	})

	return nil
}

func (s *s3BlobStore) Get(ctx context.Context, bucket string, key string) ([]byte, error) {
	getInput := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	res, err := s.s3Svc.GetObjectWithContext(ctx, getInput)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to get object from S3", map[string]interface{}{
			"bucket": bucket,
			"key":    key,
		})
		return nil, err
	}

	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			s.logger.Error(err, "Failed to close S3 object body")
		}
	}(res.Body)

	return io.ReadAll(res.Body)
}

func (s *s3BlobStore) Exists(ctx context.Context, bucket string, key string) (bool, error) {
	headInput := &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	_, err := s.s3Svc.HeadObjectWithContext(ctx, headInput)
	if err != nil {
		var awsErr awserr.Error
		if errors.As(err, &awsErr) {
			switch awsErr.Code() {
			case s3.ErrCodeNoSuchKey, "NotFound":
				return false, nil
			}
		}
		return false, err
	}

	return true, nil
}
