// Package s3 is the object store for file blobs, backed by Amazon S3 or any
// S3-compatible endpoint.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"drive-service/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const (
	emptyAWSSessionToken = ""
	defaultS3Region      = "us-east-1"
	deleteBatchSize      = 1000
	notFoundCode         = "NotFound"

	errFailedCreateAWSSessionFmt  = "failed to create AWS session: %w"
	errFailedPutObjectFmt         = "failed to put object %s: %w"
	errFailedDeleteObjectsFmt     = "failed to delete objects: %w"
	errFailedDeleteObjectKeyFmt   = "failed to delete object %s: %s"
	errFailedGenerateSignedURLFmt = "failed to generate signed URL: %w"
	errFailedCreateBucketFmt      = "failed to create bucket: %w"
	errFailedWaitBucketExistsFmt  = "failed to wait for bucket to exist: %w"
	errFailedHeadBucketFmt        = "failed to check bucket: %w"
)

type Client struct {
	svc      *s3.S3
	uploader *s3manager.Uploader
	bucket   string
	region   string
}

func NewClient(cfg *config.StorageConfig) (*Client, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	svc := s3.New(sess)

	return &Client{
		svc:      svc,
		uploader: s3manager.NewUploaderWithClient(svc),
		bucket:   cfg.Bucket,
		region:   cfg.Region,
	}, nil
}

// Put streams body to key and returns the stored path.
func (c *Client) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	input := &s3manager.UploadInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.uploader.UploadWithContext(ctx, input); err != nil {
		return "", fmt.Errorf(errFailedPutObjectFmt, key, err)
	}

	return key, nil
}

// Remove deletes keys in batches of up to 1000. Per-key failures reported by the
// service are joined into the returned error.
func (c *Client) Remove(ctx context.Context, keys []string) error {
	for start := 0; start < len(keys); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		objects := make([]*s3.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
		}

		out, err := c.svc.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(c.bucket),
			Delete: &s3.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf(errFailedDeleteObjectsFmt, err)
		}

		if len(out.Errors) > 0 {
			errs := make([]error, 0, len(out.Errors))
			for _, e := range out.Errors {
				errs = append(errs, fmt.Errorf(errFailedDeleteObjectKeyFmt, aws.StringValue(e.Key), aws.StringValue(e.Message)))
			}
			return fmt.Errorf(errFailedDeleteObjectsFmt, errors.Join(errs...))
		}
	}

	return nil
}

// CreateSignedURL presigns a GET for key valid for ttl.
func (c *Client) CreateSignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, _ := c.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)

	url, err := req.Presign(ttl)
	if err != nil {
		return "", fmt.Errorf(errFailedGenerateSignedURLFmt, err)
	}

	return url, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (c *Client) EnsureBucket(ctx context.Context) error {
	_, err := c.svc.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err == nil {
		return nil
	}

	var aerr awserr.Error
	if !errors.As(err, &aerr) || (aerr.Code() != notFoundCode && aerr.Code() != s3.ErrCodeNoSuchBucket) {
		return fmt.Errorf(errFailedHeadBucketFmt, err)
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(c.bucket),
	}

	if c.region != defaultS3Region {
		input.CreateBucketConfiguration = &s3.CreateBucketConfiguration{
			LocationConstraint: aws.String(c.region),
		}
	}

	if _, err := c.svc.CreateBucketWithContext(ctx, input); err != nil {
		return fmt.Errorf(errFailedCreateBucketFmt, err)
	}

	if err := c.svc.WaitUntilBucketExistsWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	}); err != nil {
		return fmt.Errorf(errFailedWaitBucketExistsFmt, err)
	}

	return nil
}
