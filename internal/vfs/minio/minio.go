// Package minio implements a second S3-compatible vfs.Backend using
// the minio-go client, for object stores reached without the AWS SDK
// (self-hosted MinIO, or any other S3-compatible endpoint a caller
// prefers to drive through this client instead).
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/vaultarray/vaultarray/internal/vfs"
)

// Backend stores metadata fragments as objects under bucket/prefix
// via a minio.Client.
type Backend struct {
	client *minio.Client
	bucket string
	prefix string
}

// New creates a Backend rooted at rootPrefix within bucket.
func New(client *minio.Client, bucket, rootPrefix string) *Backend {
	return &Backend{
		client: client,
		bucket: bucket,
		prefix: strings.TrimSuffix(rootPrefix, "/"),
	}
}

func (*Backend) SupportsRename() bool { return false }

func (b *Backend) key(p string) string {
	if b.prefix == "" {
		return p
	}
	return path.Join(b.prefix, p)
}

func (*Backend) CreateDir(_ context.Context, _ string) error { return nil }

func (b *Backend) ListDir(ctx context.Context, dir string) ([]string, error) {
	prefix := strings.TrimSuffix(b.key(dir), "/") + "/"

	var names []string
	for obj := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{
		Prefix: prefix,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("minio: list %s: %w", prefix, obj.Err)
		}
		rest := strings.TrimPrefix(obj.Key, prefix)
		if rest == "" || strings.Contains(rest, "/") {
			continue
		}
		names = append(names, rest)
	}
	return names, nil
}

func (b *Backend) ReadFile(ctx context.Context, p string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, b.key(p), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio: get %s: %w", p, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", vfs.ErrNotExist, p)
		}
		return nil, fmt.Errorf("minio: read %s: %w", p, err)
	}
	return data, nil
}

// WriteFile uploads data as a single PutObject call, which MinIO
// (like S3) publishes atomically: readers never observe a partial
// object.
func (b *Backend) WriteFile(ctx context.Context, p string, data []byte) error {
	_, err := b.client.PutObject(ctx, b.bucket, b.key(p), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("minio: put %s: %w", p, err)
	}
	return nil
}

func (*Backend) Rename(_ context.Context, _, _ string) error {
	return vfs.ErrRenameUnsupported
}

func (b *Backend) RemoveFile(ctx context.Context, p string) error {
	if err := b.client.RemoveObject(ctx, b.bucket, b.key(p), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio: delete %s: %w", p, err)
	}
	return nil
}

func (b *Backend) FileExists(ctx context.Context, p string) (bool, error) {
	_, err := b.client.StatObject(ctx, b.bucket, b.key(p), minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
			return false, nil
		}
		return false, fmt.Errorf("minio: stat %s: %w", p, err)
	}
	return true, nil
}
