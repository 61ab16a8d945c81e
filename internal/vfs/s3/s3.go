// Package s3 implements an S3-compatible vfs.Backend, one of the four
// backends named in spec §1 ("S3-compatible object store"). Objects
// have no real directory structure and no atomic rename, so WriteFile
// always targets the final key directly and Rename reports
// ErrRenameUnsupported — exactly the contract spec §6 expects
// implementers to fall back to on backends like this one.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vaultarray/vaultarray/internal/vfs"
)

// Backend stores metadata fragments as objects under bucket/prefix.
type Backend struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// New creates a Backend rooted at rootPrefix within bucket. client is
// a ready-to-use S3 client (region, credentials, and endpoint already
// configured by the caller — this spec does not own configuration
// loading, per §1's Out of scope list).
func New(client *s3.Client, bucket, rootPrefix string) *Backend {
	return &Backend{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   strings.TrimSuffix(rootPrefix, "/"),
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
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3: list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			rest := strings.TrimPrefix(key, prefix)
			if rest == "" || strings.Contains(rest, "/") {
				continue // nested, not a direct child
			}
			names = append(names, rest)
		}
	}
	return names, nil
}

func (b *Backend) ReadFile(ctx context.Context, p string) ([]byte, error) {
	key := b.key(p)
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", vfs.ErrNotExist, p)
		}
		return nil, fmt.Errorf("s3: get %s: %w", p, err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, fmt.Errorf("s3: read %s: %w", p, err)
	}
	return buf.Bytes(), nil
}

// WriteFile uploads data as the object named by path. A PutObject of
// a single buffer is already atomic at the S3 object-store level
// (readers never see a partially-written object), satisfying spec
// §6's "atomic create-or-replace" requirement without the temp-file
// dance the local backend needs.
func (b *Backend) WriteFile(ctx context.Context, p string, data []byte) error {
	_, err := b.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(p)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("s3: put %s: %w", p, err)
	}
	return nil
}

func (*Backend) Rename(_ context.Context, _, _ string) error {
	return vfs.ErrRenameUnsupported
}

func (b *Backend) RemoveFile(ctx context.Context, p string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(p)),
	})
	if err != nil {
		return fmt.Errorf("s3: delete %s: %w", p, err)
	}
	return nil
}

func (b *Backend) FileExists(ctx context.Context, p string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(p)),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return false, nil
		}
		return false, fmt.Errorf("s3: head %s: %w", p, err)
	}
	return true, nil
}
