package sink

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/osedata/extract-core/internal/config"
	"github.com/osedata/extract-core/internal/extract"
)

// ObjectStore abstracts the minimal MinIO/S3 operations the object sink
// needs.
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key string, data []byte) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// ObjectStoreSink uploads each table as a Parquet object partitioned by
// load date and run ID, so repeated runs never overwrite each other.
type ObjectStoreSink struct {
	store  ObjectStore
	bucket string
	prefix string
	runID  string
	log    zerolog.Logger
}

// NewObjectStoreSink creates an object-store sink.
func NewObjectStoreSink(store ObjectStore, bucket, prefix, runID string, log zerolog.Logger) *ObjectStoreSink {
	return &ObjectStoreSink{
		store:  store,
		bucket: bucket,
		prefix: prefix,
		runID:  runID,
		log:    log.With().Str("sink", "object").Logger(),
	}
}

// Write uploads every non-empty table. Keys follow
// <prefix>/<dataset>/dt=<date>/run=<id>/<dataset>.parquet.
func (s *ObjectStoreSink) Write(ctx context.Context, tables map[string]*extract.Table) (*Result, error) {
	if err := s.store.EnsureBucket(ctx, s.bucket); err != nil {
		return nil, err
	}

	loadDate := time.Now().UTC().Format("2006-01-02")
	result := &Result{Artifacts: make(map[string]string)}

	for _, name := range extract.DatasetNames {
		t := tables[name]
		if t.Empty() {
			continue
		}

		data, err := encodeParquet(t)
		if err != nil {
			return nil, err
		}

		key := joinKey(s.prefix, name, "dt="+loadDate, "run="+s.runID, name+".parquet")
		if err := s.store.PutObject(ctx, s.bucket, key, data); err != nil {
			return nil, err
		}

		result.Artifacts[name] = fmt.Sprintf("s3://%s/%s", s.bucket, key)
		result.Rows += int64(len(t.Rows))
		result.Bytes += int64(len(data))
		s.log.Debug().Str("dataset", name).Str("key", key).Int("rows", len(t.Rows)).Msg("uploaded table")
	}
	return result, nil
}

func joinKey(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, strings.Trim(p, "/"))
		}
	}
	return path.Join(kept...)
}

// =============================================================================
// STORES
// =============================================================================

// S3Client implements ObjectStore against real MinIO/S3 endpoints.
type S3Client struct {
	client *minio.Client
	region string
}

// NewS3Client builds a MinIO client from the sink configuration.
func NewS3Client(cfg config.ObjectStoreConfig) (*S3Client, error) {
	if cfg.EndpointURL == "" {
		return nil, wrapError(CodeEndpointUnreachable, true, fmt.Errorf("endpoint_url is required"))
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, wrapError(CodeAuthInvalid, false, fmt.Errorf("credentials are required"))
	}

	u, err := url.Parse(cfg.EndpointURL)
	if err != nil {
		return nil, wrapError(CodeEndpointUnreachable, true, fmt.Errorf("invalid endpoint URL: %w", err))
	}
	endpoint := u.Host
	if endpoint == "" {
		endpoint = cfg.EndpointURL
	}
	useSSL := cfg.UseSSL || u.Scheme == "https"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, wrapError(CodeEndpointUnreachable, true, err)
	}
	return &S3Client{client: client, region: cfg.Region}, nil
}

func (s *S3Client) EnsureBucket(ctx context.Context, bucket string) error {
	if bucket == "" {
		return wrapError(CodeBucketNotFound, false, fmt.Errorf("bucket name is required"))
	}
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return wrapError(CodeEndpointUnreachable, true, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return wrapError(CodeBucketNotFound, false, err)
	}
	return nil
}

func (s *S3Client) PutObject(ctx context.Context, bucket, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return wrapError(CodeSinkWriteFailed, true, err)
	}
	return nil
}

func (s *S3Client) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, wrapError(CodeObjectNotFound, false, err)
	}
	defer obj.Close()

	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, wrapError(CodeObjectNotFound, false, err)
	}
	return buf.Bytes(), nil
}

// LocalStore persists objects on disk to mimic object-store behaviour in
// tests.
type LocalStore struct {
	root string
}

// NewLocalStore creates a local object store rooted at dir.
func NewLocalStore(root string) *LocalStore {
	if root == "" {
		root = filepath.Join(os.TempDir(), "extract-store")
	}
	_ = os.MkdirAll(root, 0o755)
	return &LocalStore{root: root}
}

func (s *LocalStore) EnsureBucket(ctx context.Context, bucket string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bucket == "" {
		return wrapError(CodeBucketNotFound, false, os.ErrNotExist)
	}
	return os.MkdirAll(filepath.Join(s.root, bucket), 0o755)
}

func (s *LocalStore) PutObject(ctx context.Context, bucket, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := filepath.Join(s.root, bucket, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return wrapError(CodeSinkWriteFailed, false, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return wrapError(CodeSinkWriteFailed, true, err)
	}
	return nil
}

func (s *LocalStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, bucket, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wrapError(CodeObjectNotFound, false, err)
		}
		return nil, wrapError(CodeSinkWriteFailed, true, err)
	}
	return data, nil
}
