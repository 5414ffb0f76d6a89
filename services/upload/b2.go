package uploadsvc

import (
	"context"
	"fmt"
	"io"

	"github.com/kurin/blazer/b2"
	"github.com/pkg/errors"

	"github.com/opennotes/opennotes/core"
)

// B2Store persists note files in a Backblaze B2 bucket and returns the
// public download URL for each object.
type B2Store struct {
	bucket *b2.Bucket
}

var _ core.FileStore = (*B2Store)(nil)

func NewB2Store(ctx context.Context, conf *core.Config) (*B2Store, error) {
	client, err := b2.NewClient(ctx, conf.Storage.AccountID, conf.Storage.AppKey)
	if err != nil {
		return nil, errors.Wrap(err, "creating b2 client")
	}
	bucket, err := client.Bucket(ctx, conf.Storage.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "getting b2 bucket")
	}
	return &B2Store{bucket: bucket}, nil
}

func (s *B2Store) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	obj := s.bucket.Object(key)

	var opts []b2.WriterOption
	if contentType != "" {
		opts = append(opts, b2.WithAttrsOption(&b2.Attrs{ContentType: contentType}))
	}
	w := obj.NewWriter(ctx, opts...)

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", errors.Wrap(err, "writing object")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "closing object writer")
	}

	return objectURL(s.bucket.BaseURL(), s.bucket.Name(), key), nil
}

func objectURL(baseURL, bucket, key string) string {
	return fmt.Sprintf("%s/file/%s/%s", baseURL, bucket, key)
}
