// Package s3 provides an AWS S3 implementation of filestore.Store built on
// aws-sdk-go-v2. Unlike the MinIO driver it supports any delimiter.
package s3

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/koustreak/lorelink/internal/errs"
	"github.com/koustreak/lorelink/internal/filestore"
)

// API is the subset of the S3 client the driver calls.
type API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Driver is an S3 implementation of filestore.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client API
	bucket string
}

// New loads the AWS configuration, builds a client and pings the bucket.
// Static credentials are used when both keys are set; otherwise the default
// AWS credential chain applies.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "s3 bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to load AWS config", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(cfg.Endpoint, cfg.UseSSL))
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	d := NewWithClient(client, cfg.Bucket)
	if err := d.Ping(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// NewWithClient wraps an existing client. No connectivity check is made.
func NewWithClient(client API, bucket string) *Driver {
	return &Driver{client: client, bucket: bucket}
}

func endpointURL(endpoint string, useSSL bool) string {
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

// --- filestore.Store implementation ---

// Ping heads the bucket.
func (d *Driver) Ping(ctx context.Context) error {
	_, err := d.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(d.bucket)})
	if err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (d *Driver) Close() error {
	return nil
}

// ListLevel pages through ListObjectsV2 with the given delimiter.
func (d *Driver) ListLevel(ctx context.Context, prefix, delimiter string) ([]filestore.Entry, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(d.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String(delimiter),
	}

	var results []filestore.Entry
	paginator := s3.NewListObjectsV2Paginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, mapError(err, "failed to list objects")
		}

		for _, p := range page.CommonPrefixes {
			results = append(results, filestore.Entry{
				Name:     aws.ToString(p.Prefix),
				IsPrefix: true,
			})
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == prefix {
				continue
			}
			results = append(results, filestore.Entry{
				Name:         key,
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}

	sortEntries(results)
	return results, nil
}

// Download reads the object at key, at most maxBytes+1 bytes of it.
func (d *Driver) Download(ctx context.Context, key string, maxBytes int64) ([]byte, error) {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapError(err, "failed to get object")
	}
	defer out.Body.Close()

	data, err := filestore.ReadLimited(out.Body, maxBytes)
	if errs.IsTooLarge(err) {
		return nil, errs.Wrap(errs.ErrKindTooLarge, "object "+key+" is too large", err)
	}
	if err != nil {
		return nil, mapError(err, "failed to read object")
	}
	return data, nil
}
