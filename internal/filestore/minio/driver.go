// Package minio provides a MinIO implementation of filestore.Store.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin", "compendium")
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	entries, err := store.ListLevel(ctx, "srd/", "/")
package minio

import (
	"context"
	"strings"

	"github.com/koustreak/lorelink/internal/errs"
	"github.com/koustreak/lorelink/internal/filestore"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// delimiter is the only hierarchy separator the MinIO listing API groups on.
const delimiter = "/"

// Driver is a MinIO implementation of filestore.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *miniogo.Client
	bucket string
}

// New connects to MinIO using the provided Config and returns a Driver.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "minio bucket is required")
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create minio client", err)
	}

	d := &Driver{client: client, bucket: cfg.Bucket}

	if err := d.Ping(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

// --- filestore.Store implementation ---

// Ping verifies the configured bucket exists and is reachable.
func (d *Driver) Ping(ctx context.Context) error {
	ok, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return mapError(err, "ping failed")
	}
	if !ok {
		return errs.New(errs.ErrKindNotFound, "bucket "+d.bucket+" does not exist")
	}
	return nil
}

// Close is a no-op for MinIO; the SDK client holds no persistent connections.
func (d *Driver) Close() error {
	return nil
}

// ListLevel lists one level under prefix. Non-recursive MinIO listings group
// on "/", so any other delimiter is rejected.
func (d *Driver) ListLevel(ctx context.Context, prefix, delim string) ([]filestore.Entry, error) {
	if delim != delimiter {
		return nil, errs.New(errs.ErrKindInvalidInput, "minio listings only support the \"/\" delimiter")
	}

	listOpts := miniogo.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}

	var results []filestore.Entry
	for obj := range d.client.ListObjects(ctx, d.bucket, listOpts) {
		if obj.Err != nil {
			return nil, mapError(obj.Err, "failed to list objects")
		}
		if obj.Key == "" || obj.Key == prefix {
			continue
		}

		results = append(results, filestore.Entry{
			Name:         obj.Key,
			IsPrefix:     strings.HasSuffix(obj.Key, delimiter),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	// The channel closes early on cancellation without reporting it.
	if err := ctx.Err(); err != nil {
		return nil, mapError(err, "listing interrupted")
	}

	return results, nil
}

// Download reads the object at key, at most maxBytes+1 bytes of it.
func (d *Driver) Download(ctx context.Context, key string, maxBytes int64) ([]byte, error) {
	obj, err := d.client.GetObject(ctx, d.bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to get object")
	}
	defer obj.Close()

	// GetObject is lazy: a missing key only surfaces on the first read.
	data, err := filestore.ReadLimited(obj, maxBytes)
	if errs.IsTooLarge(err) {
		return nil, errs.Wrap(errs.ErrKindTooLarge, "object "+key+" is too large", err)
	}
	if err != nil {
		return nil, mapError(err, "failed to read object")
	}
	return data, nil
}
