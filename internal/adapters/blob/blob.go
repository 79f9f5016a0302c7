// Package blob fetches recorded audio from an S3-compatible object store
package blob

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"voxanote/internal/platform/config"
	perr "voxanote/internal/platform/errors"
)

// Config holds S3_* connection settings
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// FromConf reads S3_* settings
func FromConf(cfg config.Conf) Config {
	c := cfg.Prefix("S3_")
	return Config{
		Endpoint:  c.MustString("ENDPOINT"),
		Region:    c.MayString("REGION", "us-east-1"),
		AccessKey: c.MustString("ACCESS_KEY_ID"),
		SecretKey: c.MustString("SECRET_ACCESS_KEY"),
		UseSSL:    c.MayBool("USE_SSL", true),
	}
}

// Store reads objects from one S3-compatible endpoint
type Store struct {
	cli *minio.Client
}

// New connects a Store. Endpoint is host[:port], no scheme
func New(cfg Config) (*Store, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "blob: connect")
	}
	return &Store{cli: cli}, nil
}

// Fetch downloads a whole object into memory. Audio notes are small enough
// that streaming is not worth the plumbing
func (s *Store) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.cli.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, perr.FromTransport("s3", err)
	}
	defer obj.Close() //nolint:errcheck

	b, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.StatusCode != 0 {
			return nil, perr.FromUpstreamStatus("s3", resp.StatusCode, resp.Message)
		}
		return nil, perr.FromTransport("s3", err)
	}
	return b, nil
}

// ParseURL splits a storage URL into bucket and key. Path-style URLs use the
// first path element as the bucket; virtual-hosted amazonaws URLs use the
// first host label
func ParseURL(storageURL string) (bucket, key string, err error) {
	u, err := url.Parse(storageURL)
	if err != nil || u.Host == "" {
		return "", "", perr.InvalidArgf("invalid storage url %q", storageURL)
	}
	path := strings.TrimPrefix(u.Path, "/")

	if i := strings.Index(u.Host, ".s3."); i > 0 && strings.HasSuffix(u.Host, ".amazonaws.com") {
		if path == "" {
			return "", "", perr.InvalidArgf("storage url %q has no object key", storageURL)
		}
		return u.Host[:i], path, nil
	}

	bucket, key, ok := strings.Cut(path, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", perr.InvalidArgf("storage url %q has no bucket/key path", storageURL)
	}
	return bucket, key, nil
}
